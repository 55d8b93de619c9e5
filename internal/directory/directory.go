// Package directory is the admin-side model of the email recipient list: it
// mirrors the server collection, filters it locally and drives the create, edit
// and delete dialogs. Every successful mutation refetches the whole list.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

const DefaultDebounce = 300 * time.Millisecond

var (
	ErrMutationInFlight = errors.New("another recipient change is still in progress")
	ErrNoSelection      = errors.New("no recipient selected")
)

// API is the recipient collection endpoint; *client.Client implements it.
type API interface {
	ListRecipients(ctx context.Context) ([]entity.EmailRecipient, error)
	CreateRecipient(ctx context.Context, in entity.CreateEmailRecipientInput) (*entity.EmailRecipient, error)
	UpdateRecipient(ctx context.Context, id string, in entity.UpdateEmailRecipientInput) (*entity.EmailRecipient, error)
	DeleteRecipient(ctx context.Context, id string) error
}

type Dialog int

const (
	DialogNone Dialog = iota
	DialogCreate
	DialogEdit
	DialogDelete
)

func (d Dialog) String() string {
	switch d {
	case DialogCreate:
		return "create"
	case DialogEdit:
		return "edit"
	case DialogDelete:
		return "delete"
	}
	return "none"
}

// ValidationError is returned when a draft fails the rule set; nothing was sent.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "invalid recipient: " + validation.Join(e.Fields)
}

type Option func(*Directory)

func WithDebounce(d time.Duration) Option {
	return func(dir *Directory) { dir.debounce = d }
}

type Directory struct {
	api      API
	rules    *validation.Rules
	debounce time.Duration

	mu          sync.Mutex
	recipients  []entity.EmailRecipient
	loading     bool
	searchInput string
	searchTerm  string
	searchSeq   uint64
	timer       *time.Timer
	busy        bool
	dialog      Dialog
	selected    *entity.EmailRecipient
	draft       entity.CreateEmailRecipientInput
	fieldErrors []validation.FieldError
	errMsg      string
}

func New(api API, rules *validation.Rules, opts ...Option) *Directory {
	d := &Directory{
		api:        api,
		rules:      rules,
		debounce:   DefaultDebounce,
		recipients: []entity.EmailRecipient{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refresh replaces the local copy with the server's collection.
func (d *Directory) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	list, err := d.api.ListRecipients(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		d.errMsg = "Failed to fetch recipients: " + err.Error()
		return err
	}
	if list == nil {
		list = []entity.EmailRecipient{}
	}
	d.recipients = list
	return nil
}

func (d *Directory) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Recipients is the unfiltered local copy.
func (d *Directory) Recipients() []entity.EmailRecipient {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.EmailRecipient(nil), d.recipients...)
}

// Visible applies the settled search term to the local copy.
func (d *Directory) Visible() []entity.EmailRecipient {
	d.mu.Lock()
	defer d.mu.Unlock()
	return entity.FilterRecipients(d.recipients, d.searchTerm)
}

// SetSearch records the raw input; the filter follows once the input has been
// quiet for the debounce delay.
func (d *Directory) SetSearch(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.searchInput = term
	d.searchSeq++
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.debounce <= 0 {
		d.searchTerm = term
		return
	}
	seq := d.searchSeq
	d.timer = time.AfterFunc(d.debounce, func() { d.applySearch(seq, term) })
}

// applySearch is the debounce callback. A callback that already fired but lost
// the race for mu to a newer SetSearch is dropped.
func (d *Directory) applySearch(seq uint64, term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.searchSeq == seq {
		d.searchTerm = term
	}
}

// FlushSearch applies the pending input immediately.
func (d *Directory) FlushSearch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.searchSeq++
	d.searchTerm = d.searchInput
}

func (d *Directory) SearchInput() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searchInput
}

func (d *Directory) SearchTerm() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searchTerm
}

// Close stops a pending debounce timer.
func (d *Directory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.searchSeq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Directory) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

func (d *Directory) Dialog() Dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialog
}

func (d *Directory) Selected() (entity.EmailRecipient, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return entity.EmailRecipient{}, false
	}
	return *d.selected, true
}

// Draft is the last create draft, kept while the create dialog is open.
func (d *Directory) Draft() entity.CreateEmailRecipientInput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

func (d *Directory) FieldErrors() []validation.FieldError {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]validation.FieldError(nil), d.fieldErrors...)
}

// Error is the banner text, empty when there is nothing to show.
func (d *Directory) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMsg
}

func (d *Directory) DismissError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errMsg = ""
}

func (d *Directory) OpenCreate() {
	active := true
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialog = DialogCreate
	d.selected = nil
	d.draft = entity.CreateEmailRecipientInput{Active: &active}
	d.fieldErrors = nil
	d.errMsg = ""
}

func (d *Directory) OpenEdit(r entity.EmailRecipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialog = DialogEdit
	d.selected = &r
	d.fieldErrors = nil
}

// RequestDelete only opens the confirmation dialog.
func (d *Directory) RequestDelete(r entity.EmailRecipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialog = DialogDelete
	d.selected = &r
}

func (d *Directory) CancelDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeDialogLocked()
}

// Create sends the user-entered draft. Active defaults to true when unset.
func (d *Directory) Create(ctx context.Context, draft entity.CreateEmailRecipientInput) (*entity.EmailRecipient, error) {
	if draft.Active == nil {
		active := true
		draft.Active = &active
	}

	d.mu.Lock()
	d.draft = draft
	d.mu.Unlock()

	if err := d.validate(d.rules.CreateRecipient(draft)); err != nil {
		return nil, err
	}
	if !d.begin() {
		return nil, ErrMutationInFlight
	}
	defer d.end()

	created, err := d.api.CreateRecipient(ctx, draft)
	if err != nil {
		d.fail("create", err)
		return nil, err
	}

	d.settle(ctx)
	return created, nil
}

// Update sends patch for the recipient opened with OpenEdit.
func (d *Directory) Update(ctx context.Context, patch entity.UpdateEmailRecipientInput) (*entity.EmailRecipient, error) {
	sel, ok := d.Selected()
	if !ok {
		return nil, ErrNoSelection
	}
	if err := d.validate(d.rules.UpdateRecipient(patch)); err != nil {
		return nil, err
	}
	return d.update(ctx, sel.ID, patch)
}

// ToggleActive flips r.Active; the request body carries only that field. The
// selection of an open dialog is left alone.
func (d *Directory) ToggleActive(ctx context.Context, r entity.EmailRecipient) (*entity.EmailRecipient, error) {
	active := !r.Active
	return d.update(ctx, r.ID, entity.UpdateEmailRecipientInput{Active: &active})
}

func (d *Directory) update(ctx context.Context, id string, patch entity.UpdateEmailRecipientInput) (*entity.EmailRecipient, error) {
	if !d.begin() {
		return nil, ErrMutationInFlight
	}
	defer d.end()

	updated, err := d.api.UpdateRecipient(ctx, id, patch)
	if err != nil {
		d.fail("update", err)
		return nil, err
	}

	d.settle(ctx)
	return updated, nil
}

// ConfirmDelete deletes the recipient chosen with RequestDelete.
func (d *Directory) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	if d.dialog != DialogDelete || d.selected == nil {
		d.mu.Unlock()
		return ErrNoSelection
	}
	id := d.selected.ID
	d.mu.Unlock()

	if !d.begin() {
		return ErrMutationInFlight
	}
	defer d.end()

	if err := d.api.DeleteRecipient(ctx, id); err != nil {
		d.fail("delete", err)
		return err
	}

	d.settle(ctx)
	return nil
}

func (d *Directory) validate(fields []validation.FieldError) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fieldErrors = fields
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (d *Directory) begin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return false
	}
	d.busy = true
	return true
}

func (d *Directory) end() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = false
}

func (d *Directory) fail(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errMsg = fmt.Sprintf("Failed to %s recipient: %s", op, err.Error())
}

// settle runs after a successful mutation: refetch, then close the dialog. A
// failed refetch leaves its own banner but does not undo the mutation.
func (d *Directory) settle(ctx context.Context) {
	_ = d.Refresh(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeDialogLocked()
}

func (d *Directory) closeDialogLocked() {
	d.dialog = DialogNone
	d.selected = nil
	d.fieldErrors = nil
	d.draft = entity.CreateEmailRecipientInput{}
}
