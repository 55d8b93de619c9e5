package questionnaire

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospect-intake/internal/client"
	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/catalog"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitProspect(ctx context.Context, s entity.ProspectSubmission) (*client.SubmitProspectResponse, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.SubmitProspectResponse), args.Error(1)
}

var _ Submitter = (*client.Client)(nil)

func newQuestionnaire() (*Questionnaire, *MockSubmitter) {
	s := new(MockSubmitter)
	return New(s, validation.New(catalog.Default())), s
}

func fillContact(p *entity.ProspectSubmission) {
	p.Name = "Amy Adams"
	p.Email = "amy@example.com"
	p.Phone = "(555) 010-2030"
}

func fillAll(p *entity.ProspectSubmission) {
	fillContact(p)
	p.Goals = "Monthly bookkeeping"
	p.Services = []string{"Accounting Services"}
	p.BudgetRange = entity.Budget5kTo10k
}

// walk advances to the last step, requiring every transition to pass.
func walk(t *testing.T, q *Questionnaire) {
	t.Helper()
	for q.Step() < LastStep {
		require.Empty(t, q.Advance())
	}
}

func TestStepsOwnDisjointFields(t *testing.T) {
	seen := map[string]Step{}
	for _, s := range Steps() {
		for _, f := range s.Fields() {
			_, dup := seen[f]
			assert.False(t, dup, "field %s owned twice", f)
			seen[f] = s
		}
	}
	assert.Len(t, seen, 8)
}

func TestRetreatAtFirstStepIsNoop(t *testing.T) {
	q, _ := newQuestionnaire()

	q.Retreat()

	assert.Equal(t, StepContact, q.Step())
}

func TestAdvanceAtLastStepIsNoop(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)

	assert.Nil(t, q.Advance())
	assert.Equal(t, StepBudget, q.Step())
}

func TestAdvanceBlockedByInvalidStep(t *testing.T) {
	q, _ := newQuestionnaire()

	errs := q.Advance()

	assert.Equal(t, StepContact, q.Step())
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "email": true, "phone": true}, fields)
	assert.Equal(t, errs, q.Errors())
}

func TestAdvanceValidatesOnlyCurrentStep(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(fillContact)

	require.Empty(t, q.Advance())
	assert.Equal(t, StepGoals, q.Step())

	// goals is empty: blocked, and no contact or budget errors leak in
	errs := q.Advance()
	require.Len(t, errs, 1)
	assert.Equal(t, "goals", errs[0].Field)
	assert.Equal(t, StepGoals, q.Step())
}

func TestServicesStepRequiresSelection(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(func(p *entity.ProspectSubmission) {
		fillContact(p)
		p.Goals = "Audit"
	})
	require.Empty(t, q.Advance())
	require.Empty(t, q.Advance())
	require.Equal(t, StepServices, q.Step())

	assert.NotEmpty(t, q.Advance())

	q.ToggleService("Peer Review")
	q.ToggleService("Assurance Services")
	q.ToggleService("Peer Review")
	assert.Equal(t, []string{"Assurance Services"}, q.Draft().Services)

	assert.Empty(t, q.Advance())
	assert.Equal(t, StepBudget, q.Step())
}

func TestRetreatNeverValidates(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)

	q.Update(func(p *entity.ProspectSubmission) { p.Email = "" })
	q.Retreat()
	q.Retreat()
	q.Retreat()

	assert.Equal(t, StepContact, q.Step())
	assert.Empty(t, q.Errors())
}

func TestCanSubmit(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(fillAll)
	assert.False(t, q.CanSubmit(), "not at the last step")

	walk(t, q)
	assert.True(t, q.CanSubmit())

	q.Update(func(p *entity.ProspectSubmission) { p.BudgetRange = "lots" })
	assert.False(t, q.CanSubmit())
}

func TestSubmitRevalidatesWholeDraft(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)

	// an earlier step became invalid after it was passed
	q.Update(func(p *entity.ProspectSubmission) { p.Email = "broken" })

	err := q.Submit(context.Background())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Fields[0].Field)
	assert.Equal(t, PhaseEditing, q.Phase())
	s.AssertNotCalled(t, "SubmitProspect", mock.Anything, mock.Anything)
}

func TestSubmitBeforeLastStep(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)

	assert.ErrorIs(t, q.Submit(context.Background()), ErrNotAtFinalStep)
	s.AssertNotCalled(t, "SubmitProspect", mock.Anything, mock.Anything)
}

func TestSubmitSuccess(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)
	s.On("SubmitProspect", mock.Anything, mock.MatchedBy(func(p entity.ProspectSubmission) bool {
		return p.BudgetRange == entity.Budget5kTo10k && p.Email == "amy@example.com"
	})).Return(&client.SubmitProspectResponse{ID: "p-1"}, nil)

	require.NoError(t, q.Submit(context.Background()))

	assert.True(t, q.Submitted())
	res, ok := q.Result()
	require.True(t, ok)
	assert.Equal(t, Result{ID: "p-1", Name: "Amy Adams", Message: DefaultResultMessage}, res)
	assert.False(t, q.CanSubmit())
	assert.False(t, q.Update(fillAll))
	assert.ErrorIs(t, q.Submit(context.Background()), ErrAlreadySubmitted)
	s.AssertNumberOfCalls(t, "SubmitProspect", 1)
}

func TestSubmitFailureKeepsData(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)
	s.On("SubmitProspect", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{Status: 500, Message: "failed to submit questionnaire"})

	err := q.Submit(context.Background())

	assert.Error(t, err)
	assert.Equal(t, PhaseEditing, q.Phase())
	assert.Equal(t, StepBudget, q.Step())
	assert.Equal(t, "failed to submit questionnaire", q.SubmitError())
	assert.Equal(t, "Amy Adams", q.Draft().Name)
	assert.True(t, q.CanSubmit())

	q.DismissError()
	assert.Empty(t, q.SubmitError())
}

func TestDoubleSubmitTransmitsOnce(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)

	release := make(chan struct{})
	started := make(chan struct{})
	s.On("SubmitProspect", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&client.SubmitProspectResponse{ID: "p-1", Message: "ok"}, nil)

	done := make(chan error, 1)
	go func() { done <- q.Submit(context.Background()) }()
	<-started

	assert.Equal(t, PhaseSubmitting, q.Phase())
	assert.False(t, q.CanSubmit())
	assert.ErrorIs(t, q.Submit(context.Background()), ErrSubmissionInFlight)
	assert.False(t, q.Update(func(p *entity.ProspectSubmission) { p.Name = "Mallory" }))

	close(release)
	require.NoError(t, <-done)
	s.AssertNumberOfCalls(t, "SubmitProspect", 1)
	res, _ := q.Result()
	assert.Equal(t, "ok", res.Message)
}

func TestDraftIsACopy(t *testing.T) {
	q, _ := newQuestionnaire()
	q.ToggleService("Peer Review")

	d := q.Draft()
	d.Services[0] = "tampered"

	assert.Equal(t, []string{"Peer Review"}, q.Draft().Services)
}

func TestProgress(t *testing.T) {
	q, _ := newQuestionnaire()
	q.Update(fillContact)
	require.Empty(t, q.Advance())

	p := q.Progress()

	require.Len(t, p, 4)
	assert.Equal(t, []string{"Contact", "Goals", "Services", "Budget"}, []string{p[0].Label, p[1].Label, p[2].Label, p[3].Label})
	assert.False(t, p[0].Active)
	assert.True(t, p[1].Active)
}

func TestSubmitErrorIsNotASentinel(t *testing.T) {
	q, s := newQuestionnaire()
	q.Update(fillAll)
	walk(t, q)
	boom := errors.New("network unreachable")
	s.On("SubmitProspect", mock.Anything, mock.Anything).Return(nil, boom)

	err := q.Submit(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSubmissionInFlight)
}
