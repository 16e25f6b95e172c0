package errors

import (
	"fmt"
	"strings"
)

// Composite aggregates independent failures so the caller sees every problem
// at once instead of only the first.
type Composite struct {
	Errors []error
}

// Error implements the error interface.
func (c *Composite) Error() string {
	msgs := make([]string, len(c.Errors))
	for i, err := range c.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d errors:\n  %s", ErrCodeComposite, len(c.Errors), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (c *Composite) Unwrap() []error { return c.Errors }

// Aggregate returns a *Composite holding every non-nil error, or nil if there
// are none. Unlike [Combine] a single error is still wrapped.
func Aggregate(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Composite{Errors: kept}
}

// Combine returns nil for no errors, the error itself for exactly one, and a
// *Composite for two or more.
func Combine(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &Composite{Errors: kept}
	}
}

// Flatten lists the leaf errors of err, descending into nested composites.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	c, ok := err.(*Composite)
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range c.Errors {
		out = append(out, Flatten(e)...)
	}
	return out
}
