package state

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"iliad-account/internal/components/chrono"
	"iliad-account/internal/db"
)

// SQLiteSink stores the latest value of every key and an append-only history.
type SQLiteSink struct {
	qry    *db.Queries
	makeTx db.MakeTx
	time   chrono.TimeAPI
}

// NewSQLiteSink expects a database that db.Schema has already been applied to.
func NewSQLiteSink(database *sql.DB, clock chrono.TimeAPI) SQLiteSink {
	return SQLiteSink{
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
		time:   clock,
	}
}

func encodeValue(value any) (db.ValueKind, sql.NullString, error) {
	switch v := value.(type) {
	case nil:
		return db.KIND_NULL, sql.NullString{}, nil
	case int:
		return db.KIND_INT, sql.NullString{String: strconv.Itoa(v), Valid: true}, nil
	case float64:
		return db.KIND_FLOAT, sql.NullString{String: strconv.FormatFloat(v, 'g', -1, 64), Valid: true}, nil
	case string:
		return db.KIND_STRING, sql.NullString{String: v, Valid: true}, nil
	}
	return "", sql.NullString{}, fmt.Errorf("unsupported value type %T", value)
}

func decodeValue(kind string, value sql.NullString) (any, error) {
	if !value.Valid {
		return nil, nil
	}
	switch db.ValueKind(kind) {
	case db.KIND_NULL:
		return nil, nil
	case db.KIND_INT:
		return strconv.Atoi(value.String)
	case db.KIND_FLOAT:
		return strconv.ParseFloat(value.String, 64)
	case db.KIND_STRING:
		return value.String, nil
	}
	return nil, fmt.Errorf("unknown value kind '%s'", kind)
}

func (s SQLiteSink) Publish(ctx context.Context, states []State) error {
	tx, discard, commit, err := s.makeTx()
	if err != nil {
		return fmt.Errorf("sqlite sink: make tx: %w", err)
	}
	defer discard()

	now := s.time.Now().Unix()
	for _, st := range states {
		kind, value, err := encodeValue(st.Value)
		if err != nil {
			return fmt.Errorf("sqlite sink: %s: %w", st.Key, err)
		}
		err = tx.UpsertState(ctx, db.UpsertStateParams{
			Key:       st.Key,
			Kind:      string(kind),
			Value:     value,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("sqlite sink: upsert %s: %w", st.Key, err)
		}
		err = tx.AddStateHistory(ctx, db.AddStateHistoryParams{
			Key:   st.Key,
			Kind:  string(kind),
			Value: value,
			Time:  now,
		})
		if err != nil {
			return fmt.Errorf("sqlite sink: add history %s: %w", st.Key, err)
		}
	}

	return commit()
}

// StoredState is a state read back from the database.
type StoredState struct {
	State
	Time time.Time
}

// Latest returns the latest value of every key, sorted by key.
func (s SQLiteSink) Latest(ctx context.Context) ([]StoredState, error) {
	rows, err := s.qry.GetLatestStates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoredState, 0, len(rows))
	for _, r := range rows {
		value, err := decodeValue(r.Kind, r.Value)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.Key, err)
		}
		out = append(out, StoredState{
			State: State{Key: r.Key, Value: value},
			Time:  time.Unix(r.UpdatedAt, 0),
		})
	}
	return out, nil
}

// History returns up to `limit` past values of `key`, newest first.
func (s SQLiteSink) History(ctx context.Context, key string, limit int) ([]StoredState, error) {
	rows, err := s.qry.GetStateHistory(ctx, db.GetStateHistoryParams{
		Key:   key,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]StoredState, 0, len(rows))
	for _, r := range rows {
		value, err := decodeValue(r.Kind, r.Value)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.Key, err)
		}
		out = append(out, StoredState{
			State: State{Key: r.Key, Value: value},
			Time:  time.Unix(r.Time, 0),
		})
	}
	return out, nil
}
