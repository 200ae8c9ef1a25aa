package viewer

import "context"

// Fetcher retrieves the primary dataset text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Catalog reports which structure files can be downloaded. Membership is
// fixed when the catalog is built; it is never checked against storage.
type Catalog interface {
	Has(name string) bool
}

// LinkFunc returns the download URL for an artifact name.
type LinkFunc func(name string) string

// Observer receives load and event notifications.
type Observer interface {
	LoadCompleted(res LoadResult)
	EventHandled(kind string)
}
