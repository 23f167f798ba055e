package application

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrDuplicateSubmission = errors.New("duplicate checkout submission")
)

// ValidationError reports a bad customer field before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type WriteStage string

const (
	StageHeader WriteStage = "order"
	StageItems  WriteStage = "order_items"
)

// OrderWriteError wraps a failed persistence call of the two-step order
// write. Stage tells the caller how far the write got: a failure at
// StageItems means the order header already exists without its items.
type OrderWriteError struct {
	Stage WriteStage
	Err   error
}

func (e *OrderWriteError) Error() string {
	return fmt.Sprintf("%s insert failed: %v", e.Stage, e.Err)
}

func (e *OrderWriteError) Unwrap() error { return e.Err }
