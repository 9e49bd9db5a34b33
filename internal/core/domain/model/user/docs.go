// Package user contains the User aggregate: an account that owns orders.
//
// A User is identified by a UUID and a unique, lower-cased email. Only the
// bcrypt hash of the password is ever held by the aggregate.
package user
