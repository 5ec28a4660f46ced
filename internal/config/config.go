package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AllFilter is the sentinel accepted for month and day meaning "no filter"
const AllFilter = "all"

// Config holds the application configuration
type Config struct {
	DataDir  string       `yaml:"data_dir,omitempty"`  // Directory CSV paths are resolved against
	Database string       `yaml:"database,omitempty"`  // SQLite trip cache path
	UseCache bool         `yaml:"use_cache,omitempty"` // Prefer the SQLite cache over CSV files
	PageSize int          `yaml:"page_size,omitempty"` // Raw rows shown per page (fallback: 5)
	Cities   []CitySource `yaml:"cities,omitempty"`
	Months   []string     `yaml:"months,omitempty"`
	Days     []string     `yaml:"days,omitempty"`
	MQTT     MQTTConfig   `yaml:"mqtt,omitempty"`
}

// CitySource maps a city name to its trip data file
type CitySource struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// MQTTConfig holds MQTT broker configuration for publishing reports
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	ClientID    string `yaml:"client_id,omitempty"`    // fallback: "bikestats"
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: "bikeshare"
	Retain      bool   `yaml:"retain,omitempty"`
}

// DefaultCities are the bikeshare systems shipped with the tool
var DefaultCities = []CitySource{
	{Name: "chicago", File: "chicago.csv"},
	{Name: "new york city", File: "new_york_city.csv"},
	{Name: "washington", File: "washington.csv"},
}

// DefaultMonths are the months covered by the bikeshare data, in calendar order
var DefaultMonths = []string{"january", "february", "march", "april", "may", "june"}

// DefaultDays are the weekday names accepted as day filters
var DefaultDays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

func (c *Config) applyDefaults() {
	if len(c.Cities) == 0 {
		c.Cities = append([]CitySource(nil), DefaultCities...)
	}
	if len(c.Months) == 0 {
		c.Months = append([]string(nil), DefaultMonths...)
	}
	if len(c.Days) == 0 {
		c.Days = append([]string(nil), DefaultDays...)
	}
	for i := range c.Cities {
		c.Cities[i].Name = normalize(c.Cities[i].Name)
	}
	for i := range c.Months {
		c.Months[i] = normalize(c.Months[i])
	}
	for i := range c.Days {
		c.Days[i] = normalize(c.Days[i])
	}
}

// Validate checks the city, month and day enumerations
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Cities))
	for _, city := range c.Cities {
		if city.Name == "" {
			return fmt.Errorf("city with empty name")
		}
		if city.Name == AllFilter {
			return fmt.Errorf("city name %q is reserved", AllFilter)
		}
		if seen[city.Name] {
			return fmt.Errorf("duplicate city %q", city.Name)
		}
		seen[city.Name] = true
	}

	if len(c.Months) > 12 {
		return fmt.Errorf("%d months configured, at most 12 allowed", len(c.Months))
	}
	for i, month := range c.Months {
		if want := strings.ToLower(time.Month(i + 1).String()); month != want {
			return fmt.Errorf("month %d is %q, expected %q", i+1, month, want)
		}
	}

	weekdays := make(map[string]bool, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays[strings.ToLower(d.String())] = true
	}
	for _, day := range c.Days {
		if !weekdays[day] {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}

	return nil
}

// GetPageSize returns the number of raw rows per page with a default of 5
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 5
	}
	return c.PageSize
}

// GetDatabasePath returns the SQLite cache path with a default of ./trips.db
func (c *Config) GetDatabasePath() string {
	if c.Database == "" {
		return "trips.db"
	}
	return c.Database
}

// CityNames returns the configured city names in declaration order
func (c *Config) CityNames() []string {
	names := make([]string, len(c.Cities))
	for i, city := range c.Cities {
		names[i] = city.Name
	}
	return names
}

// SourcePath returns the resolved CSV path for a city, or false if the city is unknown
func (c *Config) SourcePath(city string) (string, bool) {
	city = normalize(city)
	for _, src := range c.Cities {
		if src.Name != city {
			continue
		}
		if src.File == "" {
			return "", false
		}
		if filepath.IsAbs(src.File) || c.DataDir == "" {
			return src.File, true
		}
		return filepath.Join(c.DataDir, src.File), true
	}
	return "", false
}

// HasCity reports whether city is one of the configured cities
func (c *Config) HasCity(city string) bool {
	return contains(c.CityNames(), normalize(city))
}

// ValidMonth reports whether month is "all" or a configured month
func (c *Config) ValidMonth(month string) bool {
	month = normalize(month)
	return month == AllFilter || contains(c.Months, month)
}

// ValidDay reports whether day is "all" or a configured weekday
func (c *Config) ValidDay(day string) bool {
	day = normalize(day)
	return day == AllFilter || contains(c.Days, day)
}

// GetClientID returns the MQTT client id, falling back to "bikestats"
func (m MQTTConfig) GetClientID() string {
	if m.ClientID == "" {
		return "bikestats"
	}
	return m.ClientID
}

// GetTopicPrefix returns the MQTT topic prefix, falling back to "bikeshare"
func (m MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "bikeshare"
	}
	return strings.TrimSuffix(m.TopicPrefix, "/")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
