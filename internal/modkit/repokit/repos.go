// Package repokit binds domain repos to a store querier
package repokit

import "memorial/internal/platform/store"

type (
	// Queryer is the read and write surface a repo runs its SQL through
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open transactions
	TxRunner = store.TxRunner
)

// Binder builds a domain repo on top of a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds q and panics when q is nil, which only happens on miswired boot
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
