package usecase

type SubmitProspectOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NotifyResult counts the per-channel outcome of one prospect notification.
type NotifyResult struct {
	EmailsSent   int
	EmailsFailed int
	CRMLeadID    int
}
