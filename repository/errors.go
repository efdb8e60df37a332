package repository

import "errors"

// ErrQuotaExceeded is returned by SelectionRepository.Select when the access
// link already has max_selections rows in the ledger.
var ErrQuotaExceeded = errors.New("selection quota exceeded")
