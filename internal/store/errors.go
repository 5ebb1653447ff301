// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"conduit/internal/apperr"
)

// PostgreSQL SQLSTATE codes mapped to client errors.
const (
	uniqueViolation = "23505"
	valueTooLong    = "22001"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueField returns the column guarded by a violated unique constraint,
// or "" when err is not a unique violation. Constraint names follow the
// PostgreSQL default "<table>_<column>_key".
func uniqueField(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return ""
	}
	name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// wrap annotates err with op, turns unique violations into conflicts and
// over-long values into validation errors.
func wrap(op string, err error) error {
	if field := uniqueField(err); field != "" {
		e := apperr.Conflict(field, "has already been taken")
		e.Cause = err
		return fmt.Errorf("%s: %w", op, e)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == valueTooLong {
		field := pgErr.ColumnName
		if field == "" {
			field = "body"
		}
		e := apperr.Validation(field, "is too long")
		e.Cause = err
		return fmt.Errorf("%s: %w", op, e)
	}
	return fmt.Errorf("%s: %w", op, err)
}
