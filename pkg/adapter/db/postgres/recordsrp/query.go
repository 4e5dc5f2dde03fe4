// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package recordsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres"
	"github.com/momeni/clean-rental/pkg/adapter/db/records"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the SQLSTATE of unique constraint violations.
const uniqueViolation = "23505"

type gRecord struct {
	Collection string `gorm:"primaryKey"`
	ID         string `gorm:"primaryKey;column:id"`
	Doc        string `gorm:"type:jsonb;not null"`
}

func (gr *gRecord) TableName() string {
	return "records"
}

func decode[T repo.Record](gr *gRecord) (T, error) {
	return records.Decode[T](gr.Collection, gr.ID, []byte(gr.Doc))
}

func encode[T repo.Record](coll string, rec T) (*gRecord, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %q: %w", coll, rec.RecordID(), err)
	}
	return &gRecord{Collection: coll, ID: rec.RecordID(), Doc: string(b)}, nil
}

func Find[T repo.Record, Q postgres.Queryer](
	ctx context.Context, q Q, coll, id string,
) (T, error) {
	var zero T
	gr := &gRecord{}
	err := q.GORM(ctx).Where(
		"collection=? AND id=?", coll, id,
	).Take(gr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return zero, records.NotFound(coll, id)
	case err != nil:
		return zero, fmt.Errorf("query: %w", err)
	}
	return decode[T](gr)
}

func FindAll[T repo.Record, Q postgres.Queryer](
	ctx context.Context, q Q, coll string,
) ([]T, error) {
	var grs []gRecord
	err := q.GORM(ctx).Where("collection=?", coll).Order("id").Find(&grs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	recs := make([]T, 0, len(grs))
	for i := range grs {
		rec, err := decode[T](&grs[i])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// TryClaim locks the id row (SELECT ... FOR UPDATE) in the tx
// transaction, so concurrent claims of the same record are serialized
// until tx ends, and updates its document if predicate holds.
func TryClaim[T repo.Record](
	ctx context.Context,
	tx *postgres.Tx,
	coll, id string,
	predicate func(T) bool,
	mutation func(*T),
) (T, error) {
	var zero T
	gr := &gRecord{}
	err := tx.GORM(ctx).Clauses(
		clause.Locking{Strength: "UPDATE"},
	).Where("collection=? AND id=?", coll, id).Take(gr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return zero, records.NotFound(coll, id)
	case err != nil:
		return zero, fmt.Errorf("query: %w", err)
	}
	rec, err := decode[T](gr)
	if err != nil {
		return zero, err
	}
	if !predicate(rec) {
		return zero, records.Conflict(coll, id)
	}
	mutation(&rec)
	ngr, err := encode(coll, rec)
	if err != nil {
		return zero, err
	}
	err = tx.GORM(ctx).Model(&gRecord{}).Where(
		"collection=? AND id=?", coll, id,
	).Update("doc", ngr.Doc).Error
	if err != nil {
		return zero, fmt.Errorf("update: %w", err)
	}
	return rec, nil
}

func Insert[T repo.Record, Q postgres.Queryer](
	ctx context.Context, q Q, coll string, rec T,
) error {
	if err := records.Check(coll, rec); err != nil {
		return err
	}
	gr, err := encode(coll, rec)
	if err != nil {
		return err
	}
	err = q.GORM(ctx).Create(gr).Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return records.Duplicate(coll, rec.RecordID())
	case err != nil:
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
