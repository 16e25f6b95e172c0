package fetch

import (
	"slices"

	"github.com/matzehuels/stackfetch/pkg/errors"
)

// Recover decides what happens to an error at a fetch boundary. Returning
// nil recovers: the boundary substitutes its default (empty) result and the
// orchestration continues. Returning an error surfaces it, either the same
// error or a translated one.
type Recover func(error) error

// NoRecovery surfaces every error unchanged.
func NoRecovery(err error) error { return err }

// RecoverCodes recovers errors carrying one of codes and surfaces the rest.
// Composite errors are recovered only if every leaf is recoverable.
func RecoverCodes(codes ...errors.Code) Recover {
	return func(err error) error {
		for _, leaf := range errors.Flatten(err) {
			if !slices.Contains(codes, errors.GetCode(leaf)) {
				return err
			}
		}
		return nil
	}
}

// apply runs r, treating a nil policy as [NoRecovery].
func (r Recover) apply(err error) error {
	if r == nil {
		return err
	}
	return r(err)
}

// Apply runs r on err. A nil policy surfaces err; a nil err is nil.
func (r Recover) Apply(err error) error {
	if err == nil {
		return nil
	}
	return r.apply(err)
}
