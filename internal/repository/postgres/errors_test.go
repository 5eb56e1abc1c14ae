package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !IsDuplicateError(dup) {
		t.Error("unique violation not recognized")
	}
	if !IsDuplicateError(fmt.Errorf("insert folder: %w", dup)) {
		t.Error("wrapped unique violation not recognized")
	}
	if IsDuplicateError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misread as duplicate")
	}
	if IsDuplicateError(errors.New("plain error")) {
		t.Error("plain error misread as duplicate")
	}
}

func TestIsNoRowsError(t *testing.T) {
	if !IsNoRowsError(pgx.ErrNoRows) {
		t.Error("pgx.ErrNoRows not recognized")
	}
	if !IsNoRowsError(fmt.Errorf("get folder: %w", pgx.ErrNoRows)) {
		t.Error("wrapped pgx.ErrNoRows not recognized")
	}
	if IsNoRowsError(errors.New("plain error")) {
		t.Error("plain error misread as no rows")
	}
}

func TestIsForeignKeyError(t *testing.T) {
	if !IsForeignKeyError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation not recognized")
	}
	if IsForeignKeyError(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation misread as foreign key")
	}
}
