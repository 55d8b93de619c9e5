package kommo

// CreateLeadInput is what the CRM needs from a submitted prospect.
type CreateLeadInput struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	BudgetLabel string
	Services    []string
	Tags        []string
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
