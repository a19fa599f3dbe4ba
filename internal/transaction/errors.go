package transaction

import "errors"

var (
	ErrNoTransactionKeys = errors.New("transaction: no keys need staging")
	ErrNoParentDir       = errors.New("transaction: cannot resolve parent directory for staging")
	ErrKeyNotMapped      = errors.New("transaction: key missing from file info")
)
