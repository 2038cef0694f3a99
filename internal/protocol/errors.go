package protocol

// Rejection and diagnostic codes surfaced across the simulation boundary.
const (
	ErrBadRequest        = "E_BAD_REQUEST"
	ErrInvalidPlacement  = "E_INVALID_PLACEMENT"
	ErrInsufficientFunds = "E_INSUFFICIENT_FUNDS"
	ErrNoRoute           = "E_NO_ROUTE"
	ErrCapacityExceeded  = "E_CAPACITY_EXCEEDED"
	ErrCorruptSave       = "E_CORRUPT_SAVE"
	ErrUnknownExtension  = "E_UNKNOWN_EXTENSION_KEY"
	ErrNotFound          = "E_NOT_FOUND"
	ErrInternal          = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:        {},
	ErrInvalidPlacement:  {},
	ErrInsufficientFunds: {},
	ErrNoRoute:           {},
	ErrCapacityExceeded:  {},
	ErrCorruptSave:       {},
	ErrUnknownExtension:  {},
	ErrNotFound:          {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
