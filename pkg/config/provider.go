// Package config supplies clearwatch configuration from pluggable
// sources. Threshold values are configuration the operator chooses; the
// detector itself never picks them.
package config

// Provider defines the interface for configuration data sources
type Provider interface {
	// LoadConfig loads the complete configuration
	LoadConfig() (*Config, error)

	Close() error
}

// Config represents the complete configuration structure
type Config struct {
	Station   StationConfig   `yaml:"station"`
	Detection DetectionConfig `yaml:"detection"`
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http,omitempty"`
}

// StationConfig describes the observing site whose measured irradiance
// is being classified.
type StationConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
	Turbidity float64 `yaml:"turbidity,omitempty"`
}

// DetectionConfig carries the rolling-window parameters. Thresholds are
// listed in canonical criterion order: mean, max, line length, sigma,
// max slope deviation.
type DetectionConfig struct {
	WindowLen  int          `yaml:"window_len"`
	Thresholds [][2]float64 `yaml:"thresholds"`
}

// DatabaseConfig locates the readings archive.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig configures the REST server.
type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}
