// Package questionnaire drives the four-step prospect form: per-step validation on
// the way forward, free navigation back, and a single guarded submission.
package questionnaire

import (
	"context"
	"errors"
	"sync"

	"github.com/xavierca1/prospect-intake/internal/client"
	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

const DefaultResultMessage = "Thank you! We received your questionnaire and will contact you shortly."

var (
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrAlreadySubmitted   = errors.New("questionnaire already submitted")
	ErrNotAtFinalStep     = errors.New("questionnaire can only be submitted from the last step")
)

// Submitter transmits a finished submission; *client.Client implements it.
type Submitter interface {
	SubmitProspect(ctx context.Context, s entity.ProspectSubmission) (*client.SubmitProspectResponse, error)
}

// ValidationError lists the fields that blocked a transition or submission.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "questionnaire is incomplete: " + validation.Join(e.Fields)
}

// Result is what the success screen shows.
type Result struct {
	ID      string
	Name    string
	Message string
}

type Questionnaire struct {
	submitter Submitter
	rules     *validation.Rules

	mu        sync.Mutex
	step      Step
	phase     Phase
	draft     entity.ProspectSubmission
	errors    []validation.FieldError
	submitErr string
	result    *Result
}

func New(submitter Submitter, rules *validation.Rules) *Questionnaire {
	return &Questionnaire{
		submitter: submitter,
		rules:     rules,
		step:      FirstStep,
		phase:     PhaseEditing,
	}
}

func (q *Questionnaire) Step() Step {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.step
}

func (q *Questionnaire) Phase() Phase {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.phase
}

func (q *Questionnaire) Submitted() bool {
	return q.Phase() == PhaseSubmitted
}

// Draft returns a copy of the entered values.
func (q *Questionnaire) Draft() entity.ProspectSubmission {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cloneSubmission(q.draft)
}

// Update edits the draft. It is refused while a submission is in flight or done.
func (q *Questionnaire) Update(fn func(*entity.ProspectSubmission)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.phase != PhaseEditing {
		return false
	}
	d := cloneSubmission(q.draft)
	fn(&d)
	q.draft = d
	return true
}

// ToggleService adds id to the selection, or removes it when already selected.
func (q *Questionnaire) ToggleService(id string) bool {
	return q.Update(func(s *entity.ProspectSubmission) {
		for i, existing := range s.Services {
			if existing == id {
				s.Services = append(s.Services[:i], s.Services[i+1:]...)
				return
			}
		}
		s.Services = append(s.Services, id)
	})
}

// Errors are the field errors from the last blocked Advance or Submit.
func (q *Questionnaire) Errors() []validation.FieldError {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]validation.FieldError(nil), q.errors...)
}

// Advance validates only the current step and moves forward when it passes.
// At the last step it does nothing.
func (q *Questionnaire) Advance() []validation.FieldError {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.phase != PhaseEditing || q.step >= LastStep {
		return nil
	}

	errs := q.rules.ProspectFields(q.draft, q.step.Fields()...)
	if len(errs) > 0 {
		q.errors = errs
		return append([]validation.FieldError(nil), errs...)
	}

	q.errors = nil
	q.step++
	return nil
}

// Retreat moves back one step without validating. At the first step it does nothing.
func (q *Questionnaire) Retreat() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.phase != PhaseEditing || q.step <= FirstStep {
		return
	}
	q.errors = nil
	q.step--
}

// CanSubmit reports whether Submit would transmit right now.
func (q *Questionnaire) CanSubmit() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.phase == PhaseEditing && q.step == LastStep && len(q.rules.Prospect(q.draft)) == 0
}

// Submit re-validates the whole draft and transmits it once. Calls made while a
// transmission is pending return ErrSubmissionInFlight. On failure the draft is
// kept and the message is available from SubmitError.
func (q *Questionnaire) Submit(ctx context.Context) error {
	q.mu.Lock()
	switch {
	case q.phase == PhaseSubmitting:
		q.mu.Unlock()
		return ErrSubmissionInFlight
	case q.phase == PhaseSubmitted:
		q.mu.Unlock()
		return ErrAlreadySubmitted
	case q.step != LastStep:
		q.mu.Unlock()
		return ErrNotAtFinalStep
	}

	if errs := q.rules.Prospect(q.draft); len(errs) > 0 {
		q.errors = errs
		q.mu.Unlock()
		return &ValidationError{Fields: errs}
	}

	q.errors = nil
	q.submitErr = ""
	q.phase = PhaseSubmitting
	payload := cloneSubmission(q.draft)
	q.mu.Unlock()

	resp, err := q.submitter.SubmitProspect(ctx, payload)

	q.mu.Lock()
	defer q.mu.Unlock()

	if err != nil {
		q.phase = PhaseEditing
		q.submitErr = err.Error()
		return err
	}

	res := Result{Name: payload.Name, Message: DefaultResultMessage}
	if resp != nil {
		res.ID = resp.ID
		if resp.Message != "" {
			res.Message = resp.Message
		}
	}
	q.result = &res
	q.phase = PhaseSubmitted
	q.draft = entity.ProspectSubmission{}
	return nil
}

// Result is only available once submitted.
func (q *Questionnaire) Result() (Result, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.result == nil {
		return Result{}, false
	}
	return *q.result, true
}

func (q *Questionnaire) SubmitError() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.submitErr
}

func (q *Questionnaire) DismissError() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.submitErr = ""
}

func (q *Questionnaire) Progress() []ProgressItem {
	current := q.Step()
	items := make([]ProgressItem, 0, len(Steps()))
	for _, s := range Steps() {
		items = append(items, ProgressItem{Step: s, Label: s.Label(), Active: s == current})
	}
	return items
}

func cloneSubmission(s entity.ProspectSubmission) entity.ProspectSubmission {
	if s.Services != nil {
		s.Services = append([]string(nil), s.Services...)
	}
	return s
}
