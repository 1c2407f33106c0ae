package rtb

import "testing"

const sampleConfig = `
resources:
  sni:
    mode: restriction
    top_n: 10
    limit: 1000
    penalty_duration: 300
    red_zone: 0.2
  disk_read:
    mode: observation
    top_n: 5
    limit: 500
    red_zone: 0.1
    queue: true
tenants:
  - alice
  - bob
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig), []string{"sni", "disk_read", "disk_write"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	sni, ok := cfg.Resources["sni"]
	if !ok {
		t.Fatalf("expected a sni resource entry")
	}
	if sni.Mode() != Restriction {
		t.Errorf("sni.Mode() = %v; want Restriction", sni.Mode())
	}
	if got := sni.Conf(); got.TopN != 10 || got.Limit != 1000 || got.PenaltyDuration != 300 || got.RedZone != 0.2 {
		t.Errorf("sni.Conf() = %+v; unexpected values", got)
	}
	dr := cfg.Resources["disk_read"]
	if !dr.Conf().Queue {
		t.Errorf("disk_read.Conf().Queue = false; want true")
	}
	if len(cfg.Tenants) != 2 || cfg.Tenants[0] != "alice" || cfg.Tenants[1] != "bob" {
		t.Errorf("Tenants = %v; want [alice bob]", cfg.Tenants)
	}
}

func TestLoadConfigRejectsUnknownResource(t *testing.T) {
	_, err := LoadConfig([]byte(sampleConfig), []string{"sni"})
	if err == nil {
		t.Fatalf("expected an error for the unregistered disk_read resource")
	}
}

func TestLoadConfigRejectsInvalidMode(t *testing.T) {
	doc := `
resources:
  sni:
    mode: obliterate
    limit: 10
`
	_, err := LoadConfig([]byte(doc), []string{"sni"})
	if err == nil {
		t.Fatalf("expected an error for an invalid mode")
	}
}

func TestLoadConfigRejectsRedZoneOutOfRange(t *testing.T) {
	doc := `
resources:
  sni:
    mode: restriction
    limit: 10
    red_zone: 1.5
`
	_, err := LoadConfig([]byte(doc), []string{"sni"})
	if err == nil {
		t.Fatalf("expected an error for a red_zone outside [0, 1]")
	}
}

func TestLoadConfigRejectsNegativeTopN(t *testing.T) {
	doc := `
resources:
  sni:
    mode: restriction
    top_n: -1
    limit: 10
`
	_, err := LoadConfig([]byte(doc), []string{"sni"})
	if err == nil {
		t.Fatalf("expected an error for a negative top_n")
	}
}

func TestLoadConfigAcceptsJSON(t *testing.T) {
	doc := `{"resources":{"sni":{"mode":"disabled","limit":10}}}`
	cfg, err := LoadConfig([]byte(doc), []string{"sni"})
	if err != nil {
		t.Fatalf("LoadConfig(JSON): %v", err)
	}
	if cfg.Resources["sni"].Mode() != Disabled {
		t.Errorf("expected disabled mode from the JSON document")
	}
}
