package pages

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSection    = errors.New("unknown locator section")
	ErrInvalidOption     = errors.New("invalid dropdown option")
	ErrMalformedQuantity = errors.New("malformed quantity")
)

// PageError provides context for a failed page operation.
type PageError struct {
	Page      string
	Operation string
	Cause     error
	Details   string
}

func (e *PageError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s failed: %v", e.Page, e.Operation, e.Cause)
	}
	return fmt.Sprintf("[%s] %s failed: %v - %s", e.Page, e.Operation, e.Cause, e.Details)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}

// InvalidOptionError reports a dropdown label that is not among the options.
type InvalidOptionError struct {
	Label   string
	Options []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%q is not a valid option, try one of: %s", e.Label, strings.Join(e.Options, ", "))
}

func (e *InvalidOptionError) Unwrap() error {
	return ErrInvalidOption
}
