package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	settingsName      = ".svcaudit"
	settingsType      = "yaml"
	environmentPrefix = "SVCAUDIT"
)

// Settings are the application-level options of svcaudit, read from
// .svcaudit.yaml and SVCAUDIT_* environment variables.
type Settings struct {
	Template        string          `mapstructure:"template"`
	StrictTemplates bool            `mapstructure:"strict_templates"`
	Log             LogSettings     `mapstructure:"log"`
	Health          HealthSettings  `mapstructure:"health"`
	History         HistorySettings `mapstructure:"history"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HealthSettings struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxLatency time.Duration `mapstructure:"max_latency"`
}

type HistorySettings struct {
	Dir string `mapstructure:"dir"`
}

func defaultSettings() map[string]any {
	return map[string]any{
		"template":           "",
		"strict_templates":   false,
		"log.level":          "warn",
		"log.format":         "console",
		"health.timeout":     "5s",
		"health.max_latency": "300ms",
		"history.dir":        "",
	}
}

// SettingsLoader wraps viper to resolve Settings from a file, the
// environment and defaults.
type SettingsLoader struct {
	searchPaths []string
}

func NewSettingsLoader(searchPaths ...string) *SettingsLoader {
	return &SettingsLoader{searchPaths: append([]string(nil), searchPaths...)}
}

// Load reads configFile when given, otherwise searches for .svcaudit.yaml.
// It returns the settings and the config file actually used, if any.
func (l *SettingsLoader) Load(configFile string) (Settings, string, error) {
	v := viper.New()
	v.SetConfigName(settingsName)
	v.SetConfigType(settingsType)
	for _, p := range l.searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(environmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaultSettings() {
		v.SetDefault(key, value)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Settings{}, "", fmt.Errorf("reading settings: %w", err)
		}
	}

	var s Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&s, hook); err != nil {
		return Settings{}, "", fmt.Errorf("parsing settings: %w", err)
	}
	return s, v.ConfigFileUsed(), nil
}
