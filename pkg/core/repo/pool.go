// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is a function which receives an acquired connection.
// The connection is released after the handler returns, so it must
// not be kept or used concurrently.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connections pool. The SQL-backed
// collections acquire one connection per collection operation and
// release it afterwards.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and releases
	// it when handler returns. The handler error is returned as is.
	Conn(ctx context.Context, handler ConnHandler) error
}
