package questionnaire

// Step is the 1-based index of a questionnaire screen.
type Step int

const (
	StepContact Step = iota + 1
	StepGoals
	StepServices
	StepBudget
)

const (
	FirstStep = StepContact
	LastStep  = StepBudget
)

func Steps() []Step {
	return []Step{StepContact, StepGoals, StepServices, StepBudget}
}

func (s Step) Label() string {
	switch s {
	case StepContact:
		return "Contact"
	case StepGoals:
		return "Goals"
	case StepServices:
		return "Services"
	case StepBudget:
		return "Budget"
	}
	return ""
}

// Fields are the ProspectSubmission struct fields owned by the step. The sets
// are disjoint and together cover the whole submission.
func (s Step) Fields() []string {
	switch s {
	case StepContact:
		return []string{"Name", "Email", "Phone", "Company"}
	case StepGoals:
		return []string{"Goals", "Timeline"}
	case StepServices:
		return []string{"Services"}
	case StepBudget:
		return []string{"BudgetRange"}
	}
	return nil
}

// Phase is the submission lifecycle. Submitted is terminal.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	}
	return "editing"
}

type ProgressItem struct {
	Step   Step
	Label  string
	Active bool
}
