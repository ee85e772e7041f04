package redirect

import "context"

// RecordID is the well-known key of the singleton configuration record.
// Widening to per-restaurant records later is a data change, not a contract
// change: the store is already keyed.
const RecordID = "qr-redirects"

// Store owns the durable code→URL mapping. Implementations classify
// failures with errx kinds: NotFound when no record has ever been written,
// Unavailable when the backend can't be reached (timeouts included).
// Implementations must be safe for concurrent use; Write must be atomic
// with respect to other writers (last-writer-wins at whole-operation
// granularity is acceptable).
type Store interface {
	// Read returns the full current mapping. An empty mapping is valid
	// data; only a record that was never written reports NotFound.
	Read(ctx context.Context) (Mapping, error)

	// Write merges partial into the record, creating it if absent.
	// Existing keys not present in partial are left untouched; unknown
	// keys are preserved. An empty partial is rejected as Invalid.
	Write(ctx context.Context, partial Mapping) error
}
