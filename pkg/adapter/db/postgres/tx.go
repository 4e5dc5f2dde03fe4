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

// Tx is a READ-COMMITTED transaction which is begun by Conn.Tx.
// A claim selects its record FOR UPDATE in a Tx, so concurrent claims
// of the same record wait for each other and the later one observes
// the committed document of the former one.
// Tx embeds the *gorm.DB, hence, may be used like GORM from within
// the repository packages.
type Tx struct {
	*gorm.DB
}

// Exec runs sql with args in the transaction and returns the number
// of affected rows. Parameters may be written as $1, ?, or @name.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := tx.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

// Query runs sql with args in the transaction. The returned Rows must
// be closed before the next statement can be issued.
func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := tx.DB.WithContext(ctx).Raw(sql, args...).Rows()
	return rowsAdapter{rows}, err
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
