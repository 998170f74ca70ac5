package database

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaMismatch   = errors.New("snapshot schema version mismatch")
	ErrCorruptSnapshot  = errors.New("snapshot is corrupted")
	ErrPassphraseNeeded = errors.New("export is encrypted; passphrase required")
)

type OpError struct {
	Op       string
	Resource string
	ID       int64
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID > 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapSnapshotErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: "snapshot", Err: err}
}

func wrapTaskErr(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: "task", ID: id, Err: err}
}
