package mapping

import "context"

// Source pulls lookup values from an external system. Values are keyed by
// category slug; a category the source cannot serve is reported as a
// warning rather than an error so a partial pull still lands.
type Source interface {
	PullValues(ctx context.Context) (values map[string][]string, warnings []string, err error)
}
