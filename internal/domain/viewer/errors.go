package viewer

import "errors"

var (
	// ErrNoPrimarySource indicates no fetcher was configured.
	ErrNoPrimarySource = errors.New("no primary data source configured")
	// ErrNoRecords indicates the primary text parsed to an empty dataset.
	ErrNoRecords = errors.New("primary data source yielded no records")
	// ErrUnknownEvent indicates an event type the state does not handle.
	ErrUnknownEvent = errors.New("unknown event")
)
