package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and passed to every component.
type Config struct {
	Token      string
	Developers []int64

	Timezone string
	OpenAt   string
	CloseAt  string
	Passcode int

	ReportFile string
	Reports    []ReportItem

	SentryDSN         string
	SentryEnvironment string

	LogLevel   string
	NotifyRate float64
}

// ReportItem is one button of the /laporan menu.
type ReportItem struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
}

// settings mirrors the optional YAML file. Zero values mean "not set".
type settings struct {
	Timezone   string       `yaml:"timezone"`
	OpenAt     string       `yaml:"open_at"`
	CloseAt    string       `yaml:"close_at"`
	Passcode   *int         `yaml:"passcode"`
	ReportFile string       `yaml:"report_file"`
	Reports    []ReportItem `yaml:"reports"`
}

var DefaultReports = []ReportItem{
	{Label: "Karyawan", Title: "Laporan Data Karyawan"},
	{Label: "Penjualan", Title: "Laporan Data Penjualan"},
	{Label: "Kehadiran Karyawan", Title: "Pendataan Kehadiran Karyawan"},
}

func Default() Config {
	return Config{
		Timezone:          "Asia/Jakarta",
		OpenAt:            "09:00",
		CloseAt:           "21:00",
		Passcode:          12345,
		ReportFile:        "laporan/contoh-laporan.pdf",
		Reports:           DefaultReports,
		SentryEnvironment: "production",
		LogLevel:          "info",
		NotifyRate:        1,
	}
}

// Load reads the configuration and validates it. A missing token or
// developer list is an error.
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read layers .env (if present), the optional BOT_SETTINGS file and the
// environment over Default without validating the result.
func Read() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("BOT_SETTINGS"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read settings")
	}
	var s settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return errors.Wrapf(err, "parse settings %s", path)
	}

	if s.Timezone != "" {
		c.Timezone = s.Timezone
	}
	if s.OpenAt != "" {
		c.OpenAt = s.OpenAt
	}
	if s.CloseAt != "" {
		c.CloseAt = s.CloseAt
	}
	if s.Passcode != nil {
		c.Passcode = *s.Passcode
	}
	if s.ReportFile != "" {
		c.ReportFile = s.ReportFile
	}
	if len(s.Reports) > 0 {
		c.Reports = s.Reports
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Token = os.Getenv("API_TOKEN")

	devs, err := ParseDevelopers(os.Getenv("DEVELOPERS"))
	if err != nil {
		return err
	}
	c.Developers = devs

	c.Timezone = envOr("TIMEZONE", c.Timezone)
	c.OpenAt = envOr("OPEN_AT", c.OpenAt)
	c.CloseAt = envOr("CLOSE_AT", c.CloseAt)
	c.ReportFile = envOr("REPORT_FILE", c.ReportFile)
	c.SentryDSN = envOr("SENTRY_DSN", c.SentryDSN)
	c.SentryEnvironment = envOr("SENTRY_ENVIRONMENT", c.SentryEnvironment)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("PASSCODE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "PASSCODE")
		}
		c.Passcode = n
	}
	if v := os.Getenv("NOTIFY_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "NOTIFY_RATE")
		}
		c.NotifyRate = f
	}
	return nil
}

func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("API_TOKEN is not set")
	}
	if len(c.Developers) == 0 {
		return errors.New("DEVELOPERS is not set")
	}
	if len(c.Reports) == 0 {
		return errors.New("report menu is empty")
	}
	if c.NotifyRate <= 0 {
		return errors.Errorf("NOTIFY_RATE must be positive, got %v", c.NotifyRate)
	}
	return nil
}

// ParseDevelopers splits a comma-separated list of chat ids.
func ParseDevelopers(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "DEVELOPERS: bad id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
