package circuit

import "errors"

// Failure kinds reported by terminals and gates. Callers match them with errors.Is;
// the returned errors wrap these with the offending index or count.
var (
	ErrIndexOutOfRange         = errors.New("terminal index out of range")
	ErrConnectionLimitExceeded = errors.New("number of connections can't be increased")
	ErrNoConnectionToRemove    = errors.New("can not disconnect: no connections")
	ErrNegativeConnections     = errors.New("connection count can't be negative")
	ErrCapacityExceeded        = errors.New("gate capacity exceeded")
	ErrInvalidSignal           = errors.New("signal outside Low/High/X")
	ErrRetriesExhausted        = errors.New("too many invalid signal characters")
)
