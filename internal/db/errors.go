package db

import "errors"

// ErrKeyNotFound signals a read of a key that does not exist.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpGet     = "GET"
	OpSet     = "SET"
	OpSetNX   = "SET NX"
	OpHSet    = "HSET"
	OpHSetNX  = "HSETNX"
	OpHGetAll = "HGETALL"
	OpHIncrBy = "HINCRBY"
	OpDel     = "DEL"
	OpScan    = "SCAN"
	OpRPush   = "RPUSH"
	OpLRange  = "LRANGE"
	OpEval    = "EVAL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
