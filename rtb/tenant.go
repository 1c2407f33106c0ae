package rtb

import "hash/fnv"

// UnknownTenantID is the sentinel tenant id that untracked or
// colliding tenant names are folded into. Its bucket is always
// pre-registered so that unattributed load is still counted.
const UnknownTenantID uint64 = 0

// TenantID hashes a tenant name into the id space used internally by
// the limiter and manager. A name that happens to hash to
// UnknownTenantID is indistinguishable from an unregistered tenant;
// callers that register tenants from configuration should treat that
// collision as a registration failure for the offending name, not
// silently merge it into "unknown".
func TenantID(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
