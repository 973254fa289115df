package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestEmptyDashboardConfigDefaults(t *testing.T) {
	cfg := EmptyDashboardConfig()

	if cfg.GetDataPath() != "day.csv" {
		t.Errorf("GetDataPath() = %q, want day.csv", cfg.GetDataPath())
	}
	if cfg.GetListen() != ":8080" {
		t.Errorf("GetListen() = %q, want :8080", cfg.GetListen())
	}
	if cfg.GetPageSize() != 50 {
		t.Errorf("GetPageSize() = %d, want 50", cfg.GetPageSize())
	}
	if cfg.GetTempRadiusC() != 5 || cfg.GetHumRadiusPct() != 10 {
		t.Errorf("radii = %g, %g, want 5, 10", cfg.GetTempRadiusC(), cfg.GetHumRadiusPct())
	}
	if cfg.GetTempMinC() != -5 || cfg.GetTempMaxC() != 40 {
		t.Errorf("temp bounds = %g..%g", cfg.GetTempMinC(), cfg.GetTempMaxC())
	}
	if cfg.GetHumMinPct() != 0 || cfg.GetHumMaxPct() != 100 {
		t.Errorf("hum bounds = %g..%g", cfg.GetHumMinPct(), cfg.GetHumMaxPct())
	}
	if cfg.GetBoundsFromData() {
		t.Error("GetBoundsFromData() should default to false")
	}
	if cfg.GetDebugDBPath() != "" {
		t.Errorf("GetDebugDBPath() = %q, want in-memory", cfg.GetDebugDBPath())
	}
	if cfg.GetAssetsHost() != DefaultAssetsHost {
		t.Errorf("GetAssetsHost() = %q", cfg.GetAssetsHost())
	}
	if cfg.GetExportDir() != "report" {
		t.Errorf("GetExportDir() = %q", cfg.GetExportDir())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	empty := EmptyDashboardConfig()

	// The defaults file and the Get* fallbacks must agree.
	if cfg.GetListen() != empty.GetListen() ||
		cfg.GetPageSize() != empty.GetPageSize() ||
		cfg.GetTempRadiusC() != empty.GetTempRadiusC() ||
		cfg.GetHumRadiusPct() != empty.GetHumRadiusPct() ||
		cfg.GetTempMinC() != empty.GetTempMinC() ||
		cfg.GetTempMaxC() != empty.GetTempMaxC() ||
		cfg.GetExportDir() != empty.GetExportDir() ||
		cfg.GetAssetsHost() != empty.GetAssetsHost() {
		t.Errorf("defaults file disagrees with Get* fallbacks: %+v", cfg)
	}
}

func TestLoadDashboardConfigJSON(t *testing.T) {
	path := writeConfig(t, "dash.json", `{
  "data_path": "hour.csv",
  "page_size": 25,
  "temp_radius_c": 2.5,
  "bounds_from_data": true
}`)

	cfg, err := LoadDashboardConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetDataPath() != "hour.csv" {
		t.Errorf("GetDataPath() = %q", cfg.GetDataPath())
	}
	if cfg.GetPageSize() != 25 {
		t.Errorf("GetPageSize() = %d", cfg.GetPageSize())
	}
	if cfg.GetTempRadiusC() != 2.5 {
		t.Errorf("GetTempRadiusC() = %g", cfg.GetTempRadiusC())
	}
	if !cfg.GetBoundsFromData() {
		t.Error("GetBoundsFromData() = false")
	}
	// unset fields keep their defaults
	if cfg.GetListen() != ":8080" {
		t.Errorf("GetListen() = %q", cfg.GetListen())
	}
}

func TestLoadDashboardConfigYAML(t *testing.T) {
	for _, name := range []string{"dash.yaml", "dash.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, name, "listen: 127.0.0.1:9000\nhum_radius_pct: 15\ntemp_min_c: -10\nexport_dir: out\n")

			cfg, err := LoadDashboardConfig(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if cfg.GetListen() != "127.0.0.1:9000" {
				t.Errorf("GetListen() = %q", cfg.GetListen())
			}
			if cfg.GetHumRadiusPct() != 15 {
				t.Errorf("GetHumRadiusPct() = %g", cfg.GetHumRadiusPct())
			}
			if cfg.GetTempMinC() != -10 {
				t.Errorf("GetTempMinC() = %g", cfg.GetTempMinC())
			}
			if cfg.GetExportDir() != "out" {
				t.Errorf("GetExportDir() = %q", cfg.GetExportDir())
			}
		})
	}
}

func TestLoadDashboardConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad extension", "dash.toml", "listen = ':1'", "extension"},
		{"invalid json", "dash.json", `{"page_size": "ten"`, "failed to parse config json"},
		{"invalid yaml", "dash.yaml", "page_size: [1, 2", "failed to parse config yaml"},
		{"invalid values", "dash.json", `{"page_size": 0}`, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := LoadDashboardConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDashboardConfigMissing(t *testing.T) {
	if _, err := LoadDashboardConfig("/nonexistent/path/to/config.json"); err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadDashboardConfigTooLarge(t *testing.T) {
	big := `{"data_path": "` + strings.Repeat("x", maxFileSize) + `"}`
	path := writeConfig(t, "big.json", big)
	_, err := LoadDashboardConfig(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("err = %v, want too large", err)
	}
}

func TestValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }
	s := func(v string) *string { return &v }

	tests := []struct {
		name     string
		cfg      DashboardConfig
		wantErrs int
	}{
		{"valid", DashboardConfig{PageSize: i(10), TempRadiusC: f(1)}, 0},
		{"empty data path", DashboardConfig{DataPath: s("")}, 1},
		{"listen without port", DashboardConfig{Listen: s("localhost")}, 1},
		{"page size too large", DashboardConfig{PageSize: i(5000)}, 1},
		{"negative radii", DashboardConfig{TempRadiusC: f(-1), HumRadiusPct: f(-1)}, 2},
		{"inverted temp bounds", DashboardConfig{TempMinC: f(30), TempMaxC: f(10)}, 1},
		{"humidity over 100", DashboardConfig{HumMaxPct: f(120)}, 1},
		{"assets host without slash", DashboardConfig{AssetsHost: s("http://localhost/assets")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErrs == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			merr, ok := err.(*multierror.Error)
			if !ok {
				t.Fatalf("Validate() = %T %v, want *multierror.Error", err, err)
			}
			if len(merr.Errors) != tt.wantErrs {
				t.Errorf("got %d errors, want %d: %v", len(merr.Errors), tt.wantErrs, err)
			}
		})
	}
}
