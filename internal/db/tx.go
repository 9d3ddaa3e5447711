package db

import (
	"database/sql"
)

// MakeTx is a function that creates a db transaction, discard is a no-op once commit succeeded.
type MakeTx = func() (tx *Queries, discard, commit func() error, err error)

func NewMakeTx(dbtx *sql.DB) MakeTx {
	qry := New(dbtx)
	return func() (tx *Queries, discard, commit func() error, err error) {
		sqltx, err := dbtx.Begin()
		if err != nil {
			return nil, nil, nil, err
		}
		txqry := qry.WithTx(sqltx)
		return txqry,
			func() error {
				err := sqltx.Rollback()
				if err == sql.ErrTxDone {
					return nil
				}
				return err
			},
			func() error {
				return sqltx.Commit()
			},
			nil
	}
}
