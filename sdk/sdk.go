// Package sdk defines the surface between the engine and its host: keyed
// string storage, the per-call environment, and the event stream. The host
// (a consensus layer, a node, or the bundled CLI harness) owns persistence
// and call ordering; the engine only ever sees one call at a time.
package sdk

// State is the keyed record store the host hands to every call.
// Get returns nil when the key is missing.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Env carries the call context the host supplies: who is calling, at which
// block height, at which time, under which transaction id.
type Env struct {
	Caller    Address `json:"caller"`
	Height    uint64  `json:"height"`
	Timestamp int64   `json:"timestamp"`
	TxID      string  `json:"tx_id"`
}

// EventSink receives the terse event lines the engine emits (one per state
// transition). A nil sink drops them.
type EventSink func(line string)
