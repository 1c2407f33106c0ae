package rtb

// ResourceMode controls how a resource's limiter verdict is treated
// by the manager, independent of whatever the limiter itself
// computes.
type ResourceMode int

const (
	// Disabled makes Inc/Dec no-ops and IsFull always false: the
	// resource isn't tracked at all.
	Disabled ResourceMode = iota
	// Observation runs the limiter (so its stats reflect real
	// demand) but forces IsFull false, for dry-run measurement ahead
	// of turning on enforcement.
	Observation
	// Restriction makes the limiter's verdict authoritative.
	Restriction
)

func (m ResourceMode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Observation:
		return "observation"
	case Restriction:
		return "restriction"
	default:
		return "unknown"
	}
}

// ParseResourceMode parses the config-file spelling of a mode.
func ParseResourceMode(s string) (ResourceMode, bool) {
	switch s {
	case "disabled", "":
		return Disabled, true
	case "observation":
		return Observation, true
	case "restriction":
		return Restriction, true
	default:
		return 0, false
	}
}
