// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a function which runs in a transaction. Returning an
// error (or panicking) rolls back the transaction.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection. Record lookups run directly
// on a Conn, while a claim needs a Tx so its row lock is held until
// the mutated document is written back.
type Conn interface {
	Queryer

	// Tx begins a transaction, runs handler in it, and commits it
	// if handler returns nil.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
