package policy

import "github.com/pkg/errors"

// errNotImplemented reports that an abstract value-estimation
// primitive was invoked on a policy without a concrete estimator.
var errNotImplemented = errors.New("no value estimator implemented")

// errUnknownOperation reports that a signature was requested for an
// operation that no layer of a policy recognizes.
var errUnknownOperation = errors.New("operation not recognized")

// IsNotImplemented returns whether or not an error reports that an
// abstract value-estimation primitive has no concrete implementation.
// Such an error is fatal: the policy cannot produce the requested
// value and must not degrade to a default.
func IsNotImplemented(err error) bool {
	return errors.Cause(err) == errNotImplemented
}

// IsUnknownOperation returns whether or not an error reports that a
// signature was requested for an operation that no policy layer
// recognizes.
func IsUnknownOperation(err error) bool {
	return errors.Cause(err) == errUnknownOperation
}
