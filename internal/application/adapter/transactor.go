// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// Transactor runs a function inside a single store transaction.
// Repositories called with the ctx passed to fn join that transaction.
// If fn returns an error every write made through ctx is rolled back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
