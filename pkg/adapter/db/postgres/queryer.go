// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/clean-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions in
// the repository packages, so they may be called with either a Conn or
// a Tx instance.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	// GORM returns the wrapped *gorm.DB configured with ctx.
	GORM(ctx context.Context) *gorm.DB
}
