// Package kernel provides the shared value objects of the order management domain.
//
// The package includes:
//   - UUID: identifier of orders and users, wrapping github.com/google/uuid
//   - Amount: a strictly positive monetary value backed by github.com/shopspring/decimal
//   - Email: a normalized, syntactically valid e-mail address
//
// Zero values of these types are invalid; they must be built through their
// constructors, and each exposes Validate so aggregates can check them on restore.
package kernel
