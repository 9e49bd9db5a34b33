package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──(sweep)──> Processing ──(sweep)──> Completed
//	   │
//	   └──(owner cancel)──> Cancelled
//
// Processing orders cannot be cancelled: once work has started it must finish.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Processing is set by the sweeper on a pending order.
	Processing

	// Completed is set by the sweeper on a processing order. Terminal.
	Completed

	// Cancelled is set when the owner cancels a pending order. Terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Processing: "processing",
	Completed:  "completed",
	Cancelled:  "cancelled",
}

// transitions lists every permitted edge of the lifecycle.
var transitions = map[Status][]Status{
	Pending:    {Processing, Cancelled},
	Processing: {Completed},
}

// autoTransitions lists the edge the sweeper follows from each eligible state.
var autoTransitions = map[Status]Status{
	Pending:    Processing,
	Processing: Completed,
}

// StatusFromString parses the persisted / wire name of a status.
func StatusFromString(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the four lifecycle states.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case name used in storage and JSON,
// or "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether the edge s -> next exists.
// It must be consulted before every status mutation.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextAutoState returns the status the sweeper should advance s to,
// or false when s is not eligible for automatic advancement.
func (s Status) NextAutoState() (Status, bool) {
	next, ok := autoTransitions[s]
	return next, ok
}
