package db

import "database/sql"

type State struct {
	Key       string
	Kind      string
	Value     sql.NullString
	UpdatedAt int64
}

type StateHistory struct {
	ID    int64
	Key   string
	Kind  string
	Value sql.NullString
	Time  int64
}
