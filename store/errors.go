package store

import "errors"

// ErrCorrupt is returned by ValidateStore when the durable medium fails
// its write self-check. election.Owner's ValidateStore contract
// treats this as fatal.
var ErrCorrupt = errors.New("store: epoch store failed validation")
