package data

import "errors"

// ErrNoDatabase is returned by repositories constructed without a database handle.
var ErrNoDatabase = errors.New("database not configured")
