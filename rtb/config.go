package rtb

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"
)

// ResourceConfig is one resource kind's entry in the configuration
// document.
type ResourceConfig struct {
	ModeName        string  `json:"mode"`
	TopN            int     `json:"top_n"`
	Limit           uint64  `json:"limit"`
	PenaltyDuration uint64  `json:"penalty_duration"`
	RedZone         float64 `json:"red_zone"`
	Queue           bool    `json:"queue"`
}

// Config is the RTB configuration surface: a resource catalogue and a
// tenant-name catalogue, loaded as one document (YAML or JSON;
// sigs.k8s.io/yaml accepts both).
type Config struct {
	Resources map[string]ResourceConfig `json:"resources"`
	Tenants   []string                  `json:"tenants"`
}

// LoadConfig parses and validates data against knownResources, the
// set of resource names the caller is prepared to register a limiter
// for. A resource name in the document that isn't in knownResources
// is rejected, per the RTB configuration surface's "unknown resource
// names are rejected" rule.
func LoadConfig(data []byte, knownResources []string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("rtb: parsing configuration: %w", err)
	}
	if err := c.Validate(knownResources); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field's range and rejects resource names
// outside knownResources.
func (c *Config) Validate(knownResources []string) error {
	known := make(map[string]bool, len(knownResources))
	for _, r := range knownResources {
		known[r] = true
	}
	var unknown []string
	for name, rc := range c.Resources {
		if !known[name] {
			unknown = append(unknown, name)
			continue
		}
		if _, ok := ParseResourceMode(rc.ModeName); !ok {
			return fmt.Errorf("rtb: resource %q: invalid mode %q", name, rc.ModeName)
		}
		if rc.TopN < 0 {
			return fmt.Errorf("rtb: resource %q: top_n must be >= 0, got %d", name, rc.TopN)
		}
		if rc.RedZone < 0 || rc.RedZone > 1 {
			return fmt.Errorf("rtb: resource %q: red_zone must be within [0, 1], got %v", name, rc.RedZone)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("rtb: unknown resource name(s) in configuration: %v", unknown)
	}
	return nil
}

// Conf converts the parsed configuration for resource into the Conf
// type Reconfigure accepts. The caller must have already validated
// the resource name exists in the document.
func (rc ResourceConfig) Conf() Conf {
	return Conf{
		TopN:            rc.TopN,
		Limit:           rc.Limit,
		PenaltyDuration: rc.PenaltyDuration,
		RedZone:         rc.RedZone,
		Queue:           rc.Queue,
	}
}

// Mode parses rc.ModeName, which Validate has already checked is valid.
func (rc ResourceConfig) Mode() ResourceMode {
	mode, _ := ParseResourceMode(rc.ModeName)
	return mode
}
