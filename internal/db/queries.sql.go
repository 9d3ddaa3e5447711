package db

import (
	"context"
	"database/sql"
)

const upsertState = `
insert into state (key, kind, value, updated_at) values (?, ?, ?, ?)
on conflict (key) do update set
    kind = excluded.kind,
    value = excluded.value,
    updated_at = excluded.updated_at
`

type UpsertStateParams struct {
	Key       string
	Kind      string
	Value     sql.NullString
	UpdatedAt int64
}

func (q *Queries) UpsertState(ctx context.Context, arg UpsertStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertState,
		arg.Key,
		arg.Kind,
		arg.Value,
		arg.UpdatedAt,
	)
	return err
}

const addStateHistory = `
insert into state_history (key, kind, value, time) values (?, ?, ?, ?)
`

type AddStateHistoryParams struct {
	Key   string
	Kind  string
	Value sql.NullString
	Time  int64
}

func (q *Queries) AddStateHistory(ctx context.Context, arg AddStateHistoryParams) error {
	_, err := q.db.ExecContext(ctx, addStateHistory,
		arg.Key,
		arg.Kind,
		arg.Value,
		arg.Time,
	)
	return err
}

const getLatestStates = `
select key, kind, value, updated_at from state order by key
`

func (q *Queries) GetLatestStates(ctx context.Context) ([]State, error) {
	rows, err := q.db.QueryContext(ctx, getLatestStates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []State
	for rows.Next() {
		var i State
		if err := rows.Scan(
			&i.Key,
			&i.Kind,
			&i.Value,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getStateHistory = `
select id, key, kind, value, time from state_history
where key = ?
order by time desc, id desc
limit ?
`

type GetStateHistoryParams struct {
	Key   string
	Limit int64
}

func (q *Queries) GetStateHistory(ctx context.Context, arg GetStateHistoryParams) ([]StateHistory, error) {
	rows, err := q.db.QueryContext(ctx, getStateHistory, arg.Key, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StateHistory
	for rows.Next() {
		var i StateHistory
		if err := rows.Scan(
			&i.ID,
			&i.Key,
			&i.Kind,
			&i.Value,
			&i.Time,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
