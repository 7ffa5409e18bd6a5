package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig is resolved in three layers: defaults, then the optional
// config.yaml in the data dir, then INKQUEST_* environment variables.
type RuntimeConfig struct {
	DataDir              string `yaml:"data_dir"`
	DatabaseFile         string `yaml:"database_file"`
	LogFile              string `yaml:"log_file"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	HeatmapWeeks         int    `yaml:"heatmap_weeks"`
	SchedulerBuffer      int    `yaml:"scheduler_buffer"`
	WatchDataDir         bool   `yaml:"watch_data_dir"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:              defaultDataDir(),
		DatabaseFile:         "inkquest.db",
		LogFile:              "inkquest.log",
		DesktopNotifications: false,
		HeatmapWeeks:         4,
		SchedulerBuffer:      64,
		WatchDataDir:         true,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkquest"
	}
	return filepath.Join(home, ".inkquest")
}

func (c RuntimeConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

func (c RuntimeConfig) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

// LoadRuntimeConfig reads the YAML config at path on top of the defaults. A
// missing file is not an error; env overrides always apply last.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return RuntimeConfig{}, err
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return RuntimeConfig{}, err
		}
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("INKQUEST_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("INKQUEST_DATABASE_FILE")); v != "" {
		cfg.DatabaseFile = v
	}
	if v := strings.TrimSpace(os.Getenv("INKQUEST_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("INKQUEST_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("INKQUEST_HEATMAP_WEEKS"); ok && v > 0 {
		cfg.HeatmapWeeks = v
	}
	if v, ok := getEnvInt("INKQUEST_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("INKQUEST_WATCH_DATA_DIR"); ok {
		cfg.WatchDataDir = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
