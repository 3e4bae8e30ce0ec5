package repository

import (
	"github.com/jmoiron/sqlx"
)

type ctxTxValue struct {
	tx *sqlx.Tx
}

type ctxReadonlyValue struct {
	db *sqlx.DB
}
