package rtb

import "fmt"

// resourceEntry is one resource kind's mode and backing limiter.
type resourceEntry struct {
	mode    ResourceMode
	limiter Limiter
}

// Manager owns one Limiter per named resource kind (e.g. "sni",
// "active_q", "disk_read", "disk_write") and is the entry point every
// caller outside this package uses: it resolves tenant names to ids,
// handles the Disabled/Observation/Restriction mode split, and keeps
// the id→name mapping the stats publisher needs.
//
// A Manager belongs to one worker, the same way its limiters do.
type Manager struct {
	resources map[string]*resourceEntry
	names     map[uint64]string
	logger    Logger
}

// NewManager returns an empty Manager. logger may be nil, in which
// case registration collisions are silently skipped rather than
// logged.
func NewManager(logger Logger) *Manager {
	m := &Manager{
		resources: make(map[string]*resourceEntry),
		names:     map[uint64]string{UnknownTenantID: "unknown"},
		logger:    logger,
	}
	return m
}

// RegisterResource adds a resource kind backed by limiter, operating
// in mode. It pre-registers the unknown-tenant sentinel bucket so
// unattributed load is still accounted for.
func (m *Manager) RegisterResource(name string, mode ResourceMode, limiter Limiter) {
	limiter.Add(UnknownTenantID)
	m.resources[name] = &resourceEntry{mode: mode, limiter: limiter}
}

// SetMode changes a registered resource's mode.
func (m *Manager) SetMode(resource string, mode ResourceMode) error {
	e, ok := m.resources[resource]
	if !ok {
		return fmt.Errorf("rtb: unknown resource %q", resource)
	}
	e.mode = mode
	return nil
}

// RegisterTenant resolves name to a tenant id and remembers the
// mapping for the stats publisher, returning the id. A name whose
// hash collides with UnknownTenantID is logged and skipped: the
// caller gets back UnknownTenantID, meaning that tenant's traffic
// will be accounted against the shared sentinel bucket instead of
// its own.
func (m *Manager) RegisterTenant(name string) uint64 {
	id := TenantID(name)
	if id == UnknownTenantID {
		if m.logger != nil {
			m.logger.Info("tenant name collides with the unknown sentinel id, skipping", map[string]any{
				"tenant": name,
			})
		}
		return UnknownTenantID
	}
	if _, exists := m.names[id]; !exists {
		m.names[id] = name
	}
	for _, e := range m.resources {
		e.limiter.Add(id)
	}
	return id
}

// TenantName returns the name registered for id, or "" if none was.
func (m *Manager) TenantName(id uint64) (string, bool) {
	name, ok := m.names[id]
	return name, ok
}

// IsFull reports whether tid's next unit of load on resource should
// be denied. An unknown resource or a Disabled/Observation one never
// denies.
func (m *Manager) IsFull(resource string, tid uint64) bool {
	e, ok := m.resources[resource]
	if !ok || e.mode != Restriction {
		return false
	}
	return e.limiter.IsFull(tid)
}

// Inc records one unit of load for tid on resource. A Disabled
// resource ignores it.
func (m *Manager) Inc(resource string, tid uint64) {
	e, ok := m.resources[resource]
	if !ok || e.mode == Disabled {
		return
	}
	e.limiter.Inc(tid)
}

// Dec releases one unit of load for tid on resource. A Disabled
// resource ignores it.
func (m *Manager) Dec(resource string, tid uint64) {
	e, ok := m.resources[resource]
	if !ok || e.mode == Disabled {
		return
	}
	e.limiter.Dec(tid)
}

// Tick runs Filter then Reserve on every registered resource's
// limiter, in the order resources were registered in is not
// guaranteed: callers that need deterministic cross-resource ordering
// should call Filter/Reserve on individual limiters themselves instead
// of through Tick.
func (m *Manager) Tick() {
	for _, e := range m.resources {
		e.limiter.Filter()
	}
	for _, e := range m.resources {
		e.limiter.Reserve()
	}
}

// Reconfigure replaces resource's configuration, effective at its
// limiter's next Reserve.
func (m *Manager) Reconfigure(resource string, conf Conf) error {
	e, ok := m.resources[resource]
	if !ok {
		return fmt.Errorf("rtb: unknown resource %q", resource)
	}
	e.limiter.Reconfigure(conf)
	return nil
}

// Resources returns the names of every registered resource kind.
func (m *Manager) Resources() []string {
	names := make([]string, 0, len(m.resources))
	for name := range m.resources {
		names = append(names, name)
	}
	return names
}
