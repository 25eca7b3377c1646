package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the api distinguishes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgInvalidText         = "22P02"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
)

// DBErrorCode classifies a postgres error, ok is false when err is not one
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation, true
	case pgForeignKeyViolation, pgStringTooLong, pgInvalidText:
		return ErrorCodeInvalidArgument, true
	case pgReadOnly, pgCannotConnectNow:
		return ErrorCodeUnavailable, true
	case pgSerialization, pgDeadlock, pgLockNotAvailable:
		return ErrorCodeDB, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err under its classified code, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, _ := DBErrorCode(err)
	if code == ErrorCodeUnknown {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresWithField is FromPostgres plus the column the server blamed
// the column comes from the error itself or from the tail of a constraint name like wishes_wish_text_check
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	var pgErr *pgconn.PgError
	if out == nil || !stderrs.As(err, &pgErr) {
		return out
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(out, col)
	}
	if col := constraintColumn(pgErr.TableName, pgErr.ConstraintName); col != "" {
		return WithField(out, col)
	}
	return out
}

func constraintColumn(table, constraint string) string {
	c := strings.TrimPrefix(constraint, table+"_")
	for _, suf := range []string{"_check", "_key", "_fkey", "_not_null"} {
		if s, ok := strings.CutSuffix(c, suf); ok {
			if s == "" || s == constraint {
				return ""
			}
			return s
		}
	}
	return ""
}
