package rtb

import (
	"fmt"
	"sort"
)

// Limiter is the common interface both RTB variants satisfy. A
// Limiter belongs to exactly one worker and is never called from more
// than one goroutine at a time.
type Limiter interface {
	// Add registers tid with a zero-value bucket if it isn't already
	// known. Calling Add for an already-known tenant is a no-op.
	Add(tid uint64)
	// IsFull reports whether tid's next unit of load should be
	// denied.
	IsFull(tid uint64) bool
	// Inc records one unit of load for tid.
	Inc(tid uint64)
	// Dec releases one unit of load for tid. Valid only when the
	// limiter's StatKind is Gauge.
	Dec(tid uint64)
	// Filter rebuilds the ranking used by Reserve to find the top-N
	// tenants by load. Call once per tick, before Reserve.
	Filter()
	// Reserve re-tunes token allocations for the next tick and
	// clears the counters Filter ranked on.
	Reserve()
	// Reconfigure atomically swaps in a new Conf, effective at the
	// next Reserve.
	Reconfigure(c Conf)
	// Snapshot returns a copy of the top-N ranked tenants' buckets
	// plus the global bucket, for the stats publisher to read between
	// Filter and Reserve, before Reserve clears the counters.
	Snapshot() (tenants map[uint64]TenantSnapshot, global GlobalSnapshot)
}

// TenantSnapshot is the publisher-facing view of one tenant's bucket.
type TenantSnapshot struct {
	Observed   uint64
	Token      uint64
	Denied     uint64
	TmpLimit   uint64
	Overflowed uint64
}

// GlobalSnapshot is the publisher-facing view of the shared overflow
// bucket.
type GlobalSnapshot struct {
	Observed uint64
	Token    uint64
}

// V0 is the observe-only RTB variant: it tracks load but never
// denies. It's used to measure what a resource's real demand looks
// like before turning on admission control.
type V0 struct {
	kind StatKind

	conf    Conf
	tenants map[uint64]*tenantBucket
	global  globalBucket
	ranked  []uint64
}

// NewV0 returns an observe-only limiter for the given statistic kind.
func NewV0(kind StatKind, conf Conf) *V0 {
	return &V0{kind: kind, conf: conf, tenants: make(map[uint64]*tenantBucket)}
}

func (l *V0) Add(tid uint64) {
	if _, ok := l.tenants[tid]; !ok {
		l.tenants[tid] = &tenantBucket{}
	}
}

// IsFull always returns false: V0 never admits or denies.
func (l *V0) IsFull(tid uint64) bool { return false }

func (l *V0) Inc(tid uint64) {
	b := l.bucket(tid)
	b.observed++
	l.global.observed++
	// enqueue is deliberately left at 0 here: V0 never admits, so
	// Filter's queue-mode ranking key (queueDelta+enqueue) always
	// reduces to 0 under this variant. Harmless since V0 only ever
	// observes, never ranks for an admission decision.
}

func (l *V0) Dec(tid uint64) {
	if l.kind != Gauge {
		panic(fmt.Sprintf("rtb: Dec called on a Counter-kind limiter for tenant %d", tid))
	}
	b := l.bucket(tid)
	if b.observed == 0 {
		panic(fmt.Sprintf("rtb: Dec underflow for tenant %d", tid))
	}
	b.observed--
	l.global.observed--
}

func (l *V0) Filter() {
	l.ranked = rankTenants(l.tenants, l.conf.Queue)
}

// Reserve clears the counters Filter ranked on for Counter kinds;
// Gauge kinds carry their running value across ticks, since a depth
// counter isn't reset just because the tick ended.
func (l *V0) Reserve() {
	if l.kind == Counter {
		for _, b := range l.tenants {
			b.observed = 0
		}
		l.global.observed = 0
	}
}

func (l *V0) Reconfigure(c Conf) {
	l.conf = c
}

// Snapshot reports each top-N tenant's observed count; V0 has no
// token, denial, penalty, or overflow state to report, so those
// fields are always zero.
func (l *V0) Snapshot() (map[uint64]TenantSnapshot, GlobalSnapshot) {
	out := make(map[uint64]TenantSnapshot, len(l.ranked))
	for _, tid := range topN(l.ranked, l.conf.TopN) {
		b := l.tenants[tid]
		out[tid] = TenantSnapshot{Observed: b.observed}
	}
	return out, GlobalSnapshot{Observed: l.global.observed}
}

func (l *V0) bucket(tid uint64) *tenantBucket {
	b, ok := l.tenants[tid]
	if !ok {
		b = &tenantBucket{}
		l.tenants[tid] = b
	}
	return b
}

// V1 is the admission-and-fair-share RTB variant: it ranks tenants by
// recent demand, grants the top N a token share proportional to that
// demand, and denies load that exceeds both a tenant's share and the
// shared overflow bucket.
type V1 struct {
	kind StatKind

	conf    Conf
	tenants map[uint64]*tenantBucket
	global  globalBucket
	ranked  []uint64
}

// NewV1 returns an admitting limiter for the given statistic kind.
func NewV1(kind StatKind, conf Conf) *V1 {
	return &V1{kind: kind, conf: conf, tenants: make(map[uint64]*tenantBucket)}
}

func (l *V1) Add(tid uint64) {
	if _, ok := l.tenants[tid]; !ok {
		l.tenants[tid] = &tenantBucket{}
	}
}

func (l *V1) IsFull(tid uint64) bool {
	if l.conf.Limit == 0 {
		return false
	}
	b, ok := l.tenants[tid]
	if !ok {
		return l.global.observed > l.global.token
	}
	if b.token == 0 {
		return l.global.observed > l.global.token
	}
	full := b.observed > b.token && l.global.observed > l.global.token
	if full {
		b.denied++
	}
	return full
}

func (l *V1) Inc(tid uint64) {
	b := l.bucket(tid)
	b.observed++
	b.enqueue++
	if b.token > 0 && b.observed <= b.token {
		return
	}
	b.overflowed++
	l.global.observed++
}

func (l *V1) Dec(tid uint64) {
	if l.kind != Gauge {
		panic(fmt.Sprintf("rtb: Dec called on a Counter-kind limiter for tenant %d", tid))
	}
	b := l.bucket(tid)
	b.dequeue++
	if b.observed > 0 {
		b.observed--
	}
	if b.overflowed == 0 {
		return
	}
	b.overflowed--
	if l.global.observed > 0 {
		l.global.observed--
	}
}

func (l *V1) Filter() {
	if l.conf.Queue {
		for _, b := range l.tenants {
			b.queueDelta += b.enqueue - b.dequeue
		}
	}
	l.ranked = rankTenants(l.tenants, l.conf.Queue)
}

// Reserve re-tunes every tenant's token share for the next tick. It
// implements the "with tmp_limit" variant: a tenant that triggered
// denials while already constrained is penalised for
// conf.PenaltyDuration ticks rather than immediately regaining a full
// share, to stop a single bursty tenant from oscillating in and out
// of admission every tick.
func (l *V1) Reserve() {
	topN := l.conf.TopN
	if topN > len(l.ranked) {
		topN = len(l.ranked)
	}

	var total uint64
	for i := 0; i < topN; i++ {
		tid := l.ranked[i]
		b := l.tenants[tid]
		key := b.observed
		if l.conf.Queue {
			key = b.queueDelta + b.enqueue
		}

		switch {
		case b.tmpLimit > 0:
			b.tmpLimitCounter++
			if b.tmpLimitCounter >= l.conf.PenaltyDuration {
				b.tmpLimit = 0
				b.tmpLimitCounter = 0
			}
		case l.global.observed > l.global.token && key > b.token && b.denied > 0:
			b.tmpLimit = b.token
		}

		c := key
		if b.tmpLimit > 0 {
			c = b.tmpLimit
		}
		total += c
	}

	var unit float64
	if total > 0 {
		unit = float64(l.conf.Limit) * (1 - l.conf.RedZone) / float64(total)
	}

	var assigned uint64
	for i, tid := range l.ranked {
		b := l.tenants[tid]
		if i < topN {
			key := b.observed
			if l.conf.Queue {
				key = b.queueDelta + b.enqueue
			}
			if b.tmpLimit > 0 {
				key = b.tmpLimit
			}
			// Truncate rather than round: rounding half up can push
			// the sum of tokens above limit*(1-red_zone), since each
			// term can round up independently. Truncation can only
			// move the sum down from the exact total*unit it would
			// otherwise equal, so assigned never exceeds the budget.
			b.token = uint64(float64(key) * unit)
			assigned += b.token
		} else {
			b.token = 0
		}
		b.observed = 0
		b.overflowed = 0
		b.enqueue = 0
		b.dequeue = 0
		b.denied = 0
	}

	if assigned > l.conf.Limit {
		assigned = l.conf.Limit
	}
	l.global.token = l.conf.Limit - assigned
	l.global.observed = 0
}

func (l *V1) Reconfigure(c Conf) {
	l.conf = c
}

// Snapshot reports each top-N tenant's full admission state.
func (l *V1) Snapshot() (map[uint64]TenantSnapshot, GlobalSnapshot) {
	out := make(map[uint64]TenantSnapshot, len(l.ranked))
	for _, tid := range topN(l.ranked, l.conf.TopN) {
		b := l.tenants[tid]
		out[tid] = TenantSnapshot{
			Observed:   b.observed,
			Token:      b.token,
			Denied:     b.denied,
			TmpLimit:   b.tmpLimit,
			Overflowed: b.overflowed,
		}
	}
	return out, GlobalSnapshot{Observed: l.global.observed, Token: l.global.token}
}

func (l *V1) bucket(tid uint64) *tenantBucket {
	b, ok := l.tenants[tid]
	if !ok {
		b = &tenantBucket{}
		l.tenants[tid] = b
	}
	return b
}

// rankTenants returns tenant ids sorted by descending rank key: raw
// observed count normally, or queueDelta+enqueue in queue mode.
func rankTenants(tenants map[uint64]*tenantBucket, queue bool) []uint64 {
	ids := make([]uint64, 0, len(tenants))
	for tid := range tenants {
		ids = append(ids, tid)
	}
	key := func(tid uint64) uint64 {
		b := tenants[tid]
		if queue {
			return b.queueDelta + b.enqueue
		}
		return b.observed
	}
	sort.Slice(ids, func(i, j int) bool {
		ki, kj := key(ids[i]), key(ids[j])
		if ki != kj {
			return ki > kj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// topN returns the first n ids of ranked, or all of them if there are
// fewer than n.
func topN(ranked []uint64, n int) []uint64 {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}
