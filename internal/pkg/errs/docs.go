// Package errs provides standardized error types for the order management service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the error taxonomy of the order service:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: bad input
//     (grouped by IsValidation)
//   - ObjectNotFoundError: an object cannot be found
//   - ForbiddenError: the caller does not own the object
//   - InvalidTransitionError: a lifecycle transition is not allowed
//   - ConflictError: a store-level write conflict or duplicate key
//   - PersistenceError: an unexpected store failure
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works through wrapping
package errs
