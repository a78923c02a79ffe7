package ledger

import "errors"

var (
	// ErrLedgerOpen is returned when the history database cannot be
	// opened or initialized.
	ErrLedgerOpen = errors.New("failed to open run history database")
	// ErrRunNotFound is returned when a run id does not exist.
	ErrRunNotFound = errors.New("run not found")
)
