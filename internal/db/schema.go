package db

import _ "embed"

//go:embed schema.sql
var Schema string

// ValueKind is the go type a stored state value is decoded into.
type ValueKind string

const (
	KIND_NULL   ValueKind = "null"
	KIND_INT    ValueKind = "int"
	KIND_FLOAT  ValueKind = "float"
	KIND_STRING ValueKind = "string"
)
