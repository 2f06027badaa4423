package help

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/sbc-prices/models"
	"gopkg.in/yaml.v3"
)

func TestQuickStartYAML_Parses(t *testing.T) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(QuickStartYAML), &doc); err != nil {
		t.Fatalf("QuickStartYAML is not valid YAML: %v", err)
	}
	for _, key := range []string{"commands", "environment", "config", "pricing"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing section %q", key)
		}
	}
}

func TestQuickStartYAML_ConfigLoads(t *testing.T) {
	var doc struct {
		Config yaml.Node `yaml:"config"`
	}
	if err := yaml.Unmarshal([]byte(QuickStartYAML), &doc); err != nil {
		t.Fatal(err)
	}
	out, err := yaml.Marshal(&doc.Config)
	if err != nil {
		t.Fatal(err)
	}

	chdirTemp(t)
	for _, key := range []string{"NTFY_TOPIC", "DATABASE_URL", "SBC_DB_PATH", "LOG_LEVEL", "SMTP_SERVER", "EMAIL_FROM", "EMAIL_TO"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, out, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := models.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() on the example config: %v", err)
	}
	want := models.DefaultConfig()
	if cfg.Fetch != want.Fetch || cfg.Storage != want.Storage || cfg.Logging != want.Logging || cfg.Server != want.Server {
		t.Errorf("example config drifted from defaults:\n got %+v\nwant %+v", *cfg, want)
	}
}

// chdirTemp changes into a fresh temp dir for the test and restores the
// previous working directory on cleanup (equivalent to t.Chdir on Go 1.24+).
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
