package rtb

import "fmt"

// StatsSink is the external metrics registry the publisher writes
// into. The core never reads these values back; it only names and
// sets them. Field names are part of the RTB stats surface and must
// not be renamed without coordinating with whatever reads them.
type StatsSink interface {
	Set(name string, value uint64)
}

// statField is one of the five published fields, in the fixed order
// the external stats surface expects.
type statField struct {
	name string
	get  func(TenantSnapshot) uint64
}

var statFields = []statField{
	{"observed", func(t TenantSnapshot) uint64 { return t.Observed }},
	{"token", func(t TenantSnapshot) uint64 { return t.Token }},
	{"tmp_limit", func(t TenantSnapshot) uint64 { return t.TmpLimit }},
	{"denied", func(t TenantSnapshot) uint64 { return t.Denied }},
	{"overflowed", func(t TenantSnapshot) uint64 { return t.Overflowed }},
}

// Publisher copies per-tick snapshots from a Manager's resources into
// a StatsSink, named "<prefix>.<resource>.<tenant>.<field>" for
// tenants and "<prefix>.global.<resource>.<field>" for the shared
// bucket.
type Publisher struct {
	prefix string
	sink   StatsSink
}

// NewPublisher returns a Publisher that names every metric slot
// "<prefix>.<resource>...".
func NewPublisher(prefix string, sink StatsSink) *Publisher {
	return &Publisher{prefix: prefix, sink: sink}
}

// Publish snapshots resource from m, via the limiter's Snapshot
// method, and writes it into the sink. Call it after Filter and
// before Reserve, so the snapshot reflects the load just ranked
// rather than the zeroed counters Reserve leaves behind.
func (p *Publisher) Publish(m *Manager, resource string) error {
	e, ok := m.resources[resource]
	if !ok {
		return fmt.Errorf("rtb: unknown resource %q", resource)
	}
	tenants, global := e.limiter.Snapshot()

	for tid, snap := range tenants {
		name, ok := m.TenantName(tid)
		if !ok {
			name = "unknown"
		}
		for _, f := range statFields {
			p.sink.Set(fmt.Sprintf("%s.%s.%s.%s", p.prefix, resource, name, f.name), f.get(snap))
		}
	}

	p.sink.Set(fmt.Sprintf("%s.global.%s.observed", p.prefix, resource), global.Observed)
	p.sink.Set(fmt.Sprintf("%s.global.%s.token", p.prefix, resource), global.Token)
	return nil
}

// PublishAll calls Publish for every resource registered on m.
func (p *Publisher) PublishAll(m *Manager) error {
	for _, name := range m.Resources() {
		if err := p.Publish(m, name); err != nil {
			return err
		}
	}
	return nil
}

// MapSink is an in-memory StatsSink, useful for tests and for a
// process that wants to read its own published stats back without an
// external metrics backend.
type MapSink struct {
	values map[string]uint64
}

// NewMapSink returns an empty MapSink.
func NewMapSink() *MapSink {
	return &MapSink{values: make(map[string]uint64)}
}

func (s *MapSink) Set(name string, value uint64) {
	s.values[name] = value
}

// Get returns the value most recently set for name.
func (s *MapSink) Get(name string) (uint64, bool) {
	v, ok := s.values[name]
	return v, ok
}
