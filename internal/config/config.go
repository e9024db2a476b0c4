// Package config loads the detgeo YAML configuration and applies DETGEO_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"detgeo/internal/blob"
	"detgeo/internal/core"
)

// Config is the top-level configuration.
type Config struct {
	Geometry GeometryConfig `yaml:"geometry"`
	Build    BuildConfig    `yaml:"build"`
	Storage  StorageConfig  `yaml:"storage"`
	Blob     BlobConfig     `yaml:"blob"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GeometryConfig names the geometry built when the command line does not.
type GeometryConfig struct {
	System    string `yaml:"system"`
	Variation string `yaml:"variation"`
}

// BuildConfig holds the construction options.
type BuildConfig struct {
	DefaultMaterial string                `yaml:"default_material"`
	CheckOverlaps   bool                  `yaml:"check_overlaps"`
	OverlapSamples  int                   `yaml:"overlap_samples"`
	SwitchMaterials []core.MaterialSwitch `yaml:"switch_materials"`
	Verbosity       int                   `yaml:"verbosity"`
	Catch           string                `yaml:"catch"`
}

// StorageConfig selects the volume store.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory, sqlite, postgres, text
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig locates the gemc text tables.
type BlobConfig struct {
	Driver string        `yaml:"driver"` // fs, s3, memory
	FSRoot string        `yaml:"fs_root"`
	S3     blob.S3Config `yaml:"s3"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Geometry: GeometryConfig{Variation: "default"},
		Build:    BuildConfig{OverlapSamples: core.DefaultSettings().OverlapSamples},
		Storage:  StorageConfig{Driver: string(core.StorageSQLite), SQLitePath: "detgeo.db"},
		Blob:     BlobConfig{Driver: string(blob.DriverFilesystem), FSRoot: "./geometry"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	str := map[string]*string{
		"DETGEO_SYSTEM":                &c.Geometry.System,
		"DETGEO_VARIATION":             &c.Geometry.Variation,
		"DETGEO_DEFAULT_MATERIAL":      &c.Build.DefaultMaterial,
		"DETGEO_CATCH":                 &c.Build.Catch,
		"DETGEO_STORAGE_DRIVER":        &c.Storage.Driver,
		"DETGEO_SQLITE_PATH":           &c.Storage.SQLitePath,
		"DETGEO_POSTGRES_DSN":          &c.Storage.PostgresDSN,
		"DETGEO_BLOB_DRIVER":           &c.Blob.Driver,
		"DETGEO_BLOB_FS_ROOT":          &c.Blob.FSRoot,
		"DETGEO_BLOB_S3_REGION":        &c.Blob.S3.Region,
		"DETGEO_BLOB_S3_BUCKET":        &c.Blob.S3.Bucket,
		"DETGEO_BLOB_S3_ENDPOINT":      &c.Blob.S3.Endpoint,
		"DETGEO_BLOB_S3_ACCESS_KEY_ID": &c.Blob.S3.AccessKeyID,
		"DETGEO_BLOB_S3_SECRET_KEY":    &c.Blob.S3.SecretAccessKey,
		"DETGEO_BLOB_S3_SESSION_TOKEN": &c.Blob.S3.SessionToken,
		"DETGEO_LOG_LEVEL":             &c.Logging.Level,
		"DETGEO_LOG_FORMAT":            &c.Logging.Format,
	}
	for key, dest := range str {
		if v := os.Getenv(key); v != "" {
			*dest = v
		}
	}
	if v := os.Getenv("DETGEO_BLOB_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DETGEO_BLOB_S3_PATH_STYLE: %w", err)
		}
		c.Blob.S3.PathStyle = b
	}
	if v := os.Getenv("DETGEO_CHECK_OVERLAPS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DETGEO_CHECK_OVERLAPS: %w", err)
		}
		c.Build.CheckOverlaps = b
	}
	if v := os.Getenv("DETGEO_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DETGEO_VERBOSITY: %w", err)
		}
		c.Build.Verbosity = n
	}
	if v := os.Getenv("DETGEO_SWITCH_MATERIALTO"); v != "" {
		switches, err := ParseSwitches(v)
		if err != nil {
			return fmt.Errorf("DETGEO_SWITCH_MATERIALTO: %w", err)
		}
		c.Build.SwitchMaterials = switches
	}
	return nil
}

// ParseSwitches reads "old,new;old,new" material switch rules.
func ParseSwitches(s string) ([]core.MaterialSwitch, error) {
	var out []core.MaterialSwitch
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("switch %q: want old,new", pair)
		}
		out = append(out, core.MaterialSwitch{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
	}
	return out, nil
}

// Validate rejects unknown drivers, malformed switches and bad logging settings.
func (c *Config) Validate() error {
	known := false
	for _, d := range core.StorageDrivers() {
		if string(d) == c.Storage.Driver {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, core.StorageDrivers())
	}
	switch blob.Driver(c.Blob.Driver) {
	case blob.DriverFilesystem, blob.DriverS3, blob.DriverMemory:
	default:
		return fmt.Errorf("invalid blob driver: %s", c.Blob.Driver)
	}
	if blob.Driver(c.Blob.Driver) == blob.DriverS3 && c.Blob.S3.Bucket == "" {
		return fmt.Errorf("blob driver s3 needs a bucket")
	}
	for i, sw := range c.Build.SwitchMaterials {
		if sw.From == "" || sw.To == "" {
			return fmt.Errorf("switch_materials[%d]: both from and to are required", i)
		}
	}
	if c.Build.OverlapSamples < 0 {
		return fmt.Errorf("overlap_samples must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}

// Settings returns the builder settings.
func (c *Config) Settings() core.Settings {
	s := core.DefaultSettings()
	s.DefaultMaterial = c.Build.DefaultMaterial
	s.CheckOverlaps = c.Build.CheckOverlaps
	if c.Build.OverlapSamples > 0 {
		s.OverlapSamples = c.Build.OverlapSamples
	}
	s.SwitchMaterials = append([]core.MaterialSwitch(nil), c.Build.SwitchMaterials...)
	s.Verbosity = c.Build.Verbosity
	s.Catch = c.Build.Catch
	return s
}

// StoreConfig returns the volume store selection.
func (c *Config) StoreConfig() core.StoreConfig {
	return core.StoreConfig{
		Driver:      core.StorageDriver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		Blob: blob.Config{
			Driver: blob.Driver(c.Blob.Driver),
			FSRoot: c.Blob.FSRoot,
			S3:     c.Blob.S3,
		},
	}
}
