package contract

import (
	"sort"

	"tokengov/sdk"
)

// journal overlays buffered writes on the host state. Reads see the overlay
// first, so a call observes its own effects; nothing touches the host until
// commit. A discarded journal is how a rejected call leaves state
// byte-for-byte unchanged.
type journal struct {
	base   sdk.State
	writes map[string]*string // nil value marks a delete
}

func newJournal(base sdk.State) *journal {
	return &journal{base: base, writes: make(map[string]*string)}
}

func (j *journal) Set(key, value string) {
	v := value
	j.writes[key] = &v
}

func (j *journal) Get(key string) *string {
	if v, ok := j.writes[key]; ok {
		if v == nil {
			return nil
		}
		cp := *v
		return &cp
	}
	return j.base.Get(key)
}

func (j *journal) Delete(key string) {
	j.writes[key] = nil
}

// commit flushes buffered writes to the host in sorted key order so the write
// sequence is deterministic for hosts that hash their write-set.
func (j *journal) commit() {
	keys := make([]string, 0, len(j.writes))
	for k := range j.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := j.writes[k]; v == nil {
			j.base.Delete(k)
		} else {
			j.base.Set(k, *v)
		}
	}
}

// txContext is the per-call bundle every operation works against: the host
// environment, the journaled state and the buffered event lines. One call,
// one context, run to completion.
type txContext struct {
	env    sdk.Env
	st     *journal
	events []string
}

func newTxContext(env sdk.Env, base sdk.State) *txContext {
	return &txContext{env: env, st: newJournal(base)}
}

func (c *txContext) caller() sdk.Address {
	return c.env.Caller
}

func (c *txContext) height() uint64 {
	return c.env.Height
}

// now returns the host-supplied block timestamp. The engine never reads the
// wall clock.
func (c *txContext) now() int64 {
	return c.env.Timestamp
}

func (c *txContext) txID() string {
	return c.env.TxID
}

// emit buffers an event line; lines reach the sink only if the call commits.
func (c *txContext) emit(line string) {
	c.events = append(c.events, line)
}
