package db

import (
	"context"
	"database/sql"
	"testing"

	"iliad-account/lib/testutil"

	"github.com/stretchr/testify/require"
)

func upsert(t *testing.T, qry *Queries, key, value string) {
	err := qry.UpsertState(context.Background(), UpsertStateParams{
		Key:       key,
		Kind:      string(KIND_STRING),
		Value:     sql.NullString{String: value, Valid: true},
		UpdatedAt: 1,
	})
	require.NoError(t, err)
}

func TestMakeTx(t *testing.T) {
	ctx := context.Background()
	database := testutil.OpenDB(t, Schema, "")
	qry := New(database)
	makeTx := NewMakeTx(database)

	tx, discard, commit, err := makeTx()
	require.NoError(t, err)
	upsert(t, tx, "iliad_account.credit_renew", "01/01/2026")
	require.NoError(t, commit())
	require.NoError(t, discard())

	tx, discard, _, err = makeTx()
	require.NoError(t, err)
	upsert(t, tx, "iliad_account.credit_renew", "02/02/2026")
	require.NoError(t, discard())

	states, err := qry.GetLatestStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, "01/01/2026", states[0].Value.String)
}
