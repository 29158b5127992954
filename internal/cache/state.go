// Package cache implements the backend's two-level word-count cache: a
// bounded in-process L1 in front of a shared Redis L2.
package cache

// State reports the outcome of L2.Get: "present" (a count, possibly zero,
// is stored under the key), "absent" (no value is stored under the key) or
// "transport_error" (Redis is unreachable or the stored value is
// unparseable).
type State int

const (
	Present State = iota
	Absent
	TransportError
)

// Miss is the sentinel returned to callers on any lookup failure. It must
// never be written back to either tier.
const Miss int64 = -1
