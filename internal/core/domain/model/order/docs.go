// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Status: the legal states and edges of the lifecycle, with no I/O
//   - Order: the aggregate root holding identity, owner, product, amount and status
//
// Key business rules:
//   - Orders are created in Pending status with a positive amount and a product name
//   - Pending orders are advanced to Processing and then Completed by the sweeper
//   - Only Pending orders can be cancelled, and only by their owner
//   - Completed and Cancelled are terminal
//   - Identity, owner, product name, amount and creation time never change
package order
