package hotkey

import "errors"

var (
	ErrProtected          = errors.New("accelerator is reserved by the system")
	ErrDuplicate          = errors.New("accelerator is already bound to another action")
	ErrOSRejected         = errors.New("accelerator could not be registered with the system")
	ErrPersistFailed      = errors.New("shortcut settings could not be saved")
	ErrInvalidAccelerator = errors.New("invalid accelerator")
	ErrUnknownAction      = errors.New("unknown action")
)

// ErrorCode maps a registry error to the short code returned over RPC.
// It returns "" for nil and "Error" for anything unrecognised.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProtected):
		return "Protected"
	case errors.Is(err, ErrDuplicate):
		return "Duplicate"
	case errors.Is(err, ErrPersistFailed):
		return "PersistFailed"
	case errors.Is(err, ErrOSRejected), errors.Is(err, ErrBackendNotAvailable):
		return "OSRejected"
	case errors.Is(err, ErrInvalidAccelerator):
		return "Invalid"
	case errors.Is(err, ErrUnknownAction):
		return "UnknownAction"
	default:
		return "Error"
	}
}
