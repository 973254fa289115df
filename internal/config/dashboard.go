package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical dashboard defaults file.
// This is the single source of truth for all default values.
const DefaultConfigPath = "config/dashboard.defaults.json"

// DefaultAssetsHost serves the echarts javascript when no local copy is configured.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// DashboardConfig is the root configuration of the dashboard binary.
// Every field is optional; the Get* methods supply the default for unset
// fields, so partial configs are safe. Command-line flags override it.
type DashboardConfig struct {
	DataPath *string `json:"data_path,omitempty" yaml:"data_path,omitempty"`
	Listen   *string `json:"listen,omitempty" yaml:"listen,omitempty"`
	PageSize *int    `json:"page_size,omitempty" yaml:"page_size,omitempty"`

	// Input bands for the day view, in display units.
	TempRadiusC  *float64 `json:"temp_radius_c,omitempty" yaml:"temp_radius_c,omitempty"`
	HumRadiusPct *float64 `json:"hum_radius_pct,omitempty" yaml:"hum_radius_pct,omitempty"`

	// Input bounds. Ignored when BoundsFromData is true.
	TempMinC       *float64 `json:"temp_min_c,omitempty" yaml:"temp_min_c,omitempty"`
	TempMaxC       *float64 `json:"temp_max_c,omitempty" yaml:"temp_max_c,omitempty"`
	HumMinPct      *float64 `json:"hum_min_pct,omitempty" yaml:"hum_min_pct,omitempty"`
	HumMaxPct      *float64 `json:"hum_max_pct,omitempty" yaml:"hum_max_pct,omitempty"`
	BoundsFromData *bool    `json:"bounds_from_data,omitempty" yaml:"bounds_from_data,omitempty"`

	DebugDBPath *string `json:"debug_db_path,omitempty" yaml:"debug_db_path,omitempty"` // "" keeps the mirror in memory
	AssetsHost  *string `json:"assets_host,omitempty" yaml:"assets_host,omitempty"`
	ExportDir   *string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`
}

// EmptyDashboardConfig returns a DashboardConfig with all fields set to nil.
func EmptyDashboardConfig() *DashboardConfig {
	return &DashboardConfig{}
}

// LoadDashboardConfig loads a DashboardConfig from a JSON or YAML file,
// chosen by extension. The file must be under 1MB and must validate.
func LoadDashboardConfig(path string) (*DashboardConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDashboardConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", strings.TrimPrefix(ext, "."), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories and
// panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *DashboardConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // from cmd/<bin>/ subpackages
	}
	for _, path := range candidates {
		if cfg, err := LoadDashboardConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks every set field and reports all problems together.
func (c *DashboardConfig) Validate() error {
	var result *multierror.Error

	if c.DataPath != nil && *c.DataPath == "" {
		result = multierror.Append(result, fmt.Errorf("data_path must not be empty"))
	}
	if c.Listen != nil && !strings.Contains(*c.Listen, ":") {
		result = multierror.Append(result, fmt.Errorf("listen must be host:port, got %q", *c.Listen))
	}
	if c.PageSize != nil && (*c.PageSize < 1 || *c.PageSize > 1000) {
		result = multierror.Append(result, fmt.Errorf("page_size must be between 1 and 1000, got %d", *c.PageSize))
	}
	if c.TempRadiusC != nil && *c.TempRadiusC < 0 {
		result = multierror.Append(result, fmt.Errorf("temp_radius_c must be non-negative, got %g", *c.TempRadiusC))
	}
	if c.HumRadiusPct != nil && *c.HumRadiusPct < 0 {
		result = multierror.Append(result, fmt.Errorf("hum_radius_pct must be non-negative, got %g", *c.HumRadiusPct))
	}
	if c.GetTempMinC() >= c.GetTempMaxC() {
		result = multierror.Append(result, fmt.Errorf("temp_min_c (%g) must be below temp_max_c (%g)", c.GetTempMinC(), c.GetTempMaxC()))
	}
	if c.GetHumMinPct() >= c.GetHumMaxPct() {
		result = multierror.Append(result, fmt.Errorf("hum_min_pct (%g) must be below hum_max_pct (%g)", c.GetHumMinPct(), c.GetHumMaxPct()))
	}
	if c.GetHumMinPct() < 0 || c.GetHumMaxPct() > 100 {
		result = multierror.Append(result, fmt.Errorf("humidity bounds must lie within 0..100, got %g..%g", c.GetHumMinPct(), c.GetHumMaxPct()))
	}
	if c.AssetsHost != nil && *c.AssetsHost != "" && !strings.HasSuffix(*c.AssetsHost, "/") {
		result = multierror.Append(result, fmt.Errorf("assets_host must end with '/', got %q", *c.AssetsHost))
	}

	return result.ErrorOrNil()
}

// GetDataPath returns the data_path value or the default.
func (c *DashboardConfig) GetDataPath() string {
	if c.DataPath == nil {
		return "day.csv"
	}
	return *c.DataPath
}

// GetListen returns the listen value or the default.
func (c *DashboardConfig) GetListen() string {
	if c.Listen == nil {
		return ":8080"
	}
	return *c.Listen
}

// GetPageSize returns the page_size value or the default.
func (c *DashboardConfig) GetPageSize() int {
	if c.PageSize == nil {
		return 50
	}
	return *c.PageSize
}

// GetTempRadiusC returns the temp_radius_c value or the default.
func (c *DashboardConfig) GetTempRadiusC() float64 {
	if c.TempRadiusC == nil {
		return 5
	}
	return *c.TempRadiusC
}

// GetHumRadiusPct returns the hum_radius_pct value or the default.
func (c *DashboardConfig) GetHumRadiusPct() float64 {
	if c.HumRadiusPct == nil {
		return 10
	}
	return *c.HumRadiusPct
}

func (c *DashboardConfig) GetTempMinC() float64 {
	if c.TempMinC == nil {
		return -5
	}
	return *c.TempMinC
}

func (c *DashboardConfig) GetTempMaxC() float64 {
	if c.TempMaxC == nil {
		return 40
	}
	return *c.TempMaxC
}

func (c *DashboardConfig) GetHumMinPct() float64 {
	if c.HumMinPct == nil {
		return 0
	}
	return *c.HumMinPct
}

func (c *DashboardConfig) GetHumMaxPct() float64 {
	if c.HumMaxPct == nil {
		return 100
	}
	return *c.HumMaxPct
}

// GetBoundsFromData returns the bounds_from_data value or the default.
func (c *DashboardConfig) GetBoundsFromData() bool {
	if c.BoundsFromData == nil {
		return false
	}
	return *c.BoundsFromData
}

// GetDebugDBPath returns the debug_db_path value; empty means in-memory.
func (c *DashboardConfig) GetDebugDBPath() string {
	if c.DebugDBPath == nil {
		return ""
	}
	return *c.DebugDBPath
}

// GetAssetsHost returns the assets_host value or DefaultAssetsHost.
func (c *DashboardConfig) GetAssetsHost() string {
	if c.AssetsHost == nil || *c.AssetsHost == "" {
		return DefaultAssetsHost
	}
	return *c.AssetsHost
}

// GetExportDir returns the export_dir value or the default.
func (c *DashboardConfig) GetExportDir() string {
	if c.ExportDir == nil {
		return "report"
	}
	return *c.ExportDir
}
