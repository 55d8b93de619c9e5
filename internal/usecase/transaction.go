package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction runs operations in order; when one fails, the compensations of the
// operations that already succeeded run in reverse order.
type Transaction struct {
	operations []Operation
}

type Operation struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error
}

// TransactionError names the operation that failed.
type TransactionError struct {
	Operation  string
	RolledBack int
	Err        error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("operation '%s' failed: %v (rolled back %d operations)", e.Operation, e.Err, e.RolledBack)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation appends a step. compensate may be nil when the step has nothing to undo.
func (t *Transaction) AddOperation(name string, fn, compensate func(context.Context) error) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn, Compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			return &TransactionError{
				Operation:  op.Name,
				RolledBack: t.rollback(ctx, i),
				Err:        err,
			}
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) int {
	// The request context may already be cancelled; compensations must still run.
	ctx = context.WithoutCancel(ctx)

	rolledBack := 0
	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.operations[i]
		if comp.Compensate == nil {
			continue
		}
		if err := comp.Compensate(ctx); err != nil {
			log.Printf("⚠️ WARNING: compensation for '%s' failed: %v (inconsistency risk!)", comp.Name, err)
			continue
		}
		rolledBack++
	}
	return rolledBack
}
