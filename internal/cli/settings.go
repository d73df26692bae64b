package cli

import (
	"github.com/spf13/viper"

	"codeberg.org/snonux/rstedit/internal/history"
	"codeberg.org/snonux/rstedit/internal/render"
)

// Settings is the resolved configuration the application runs with
type Settings struct {
	Render *render.Config

	PreviewRendered bool
	AutoReload      bool

	HistoryEnabled bool
	HistoryDB      string

	LogLevel string
}

// setDefaults registers defaults for keys that have no flag
func setDefaults() {
	defaults := render.DefaultConfig()
	viper.SetDefault("render.halt_level", defaults.HaltLevel)
	viper.SetDefault("render.report_level", defaults.ReportLevel)
	viper.SetDefault("render.timeout", defaults.Timeout)
	viper.SetDefault("render.breaker_failures", defaults.BreakerFailures)
	viper.SetDefault("render.breaker_cooldown", defaults.BreakerCooldown)
	viper.SetDefault("history.enabled", true)
}

// LoadSettings resolves flags, config file and environment into Settings
func LoadSettings(flags *Flags) *Settings {
	setDefaults()
	defaults := render.DefaultConfig()

	renderConfig := &render.Config{
		Engine:          stringOr(viper.GetString("render.engine"), flags.Engine),
		Command:         stringOr(viper.GetString("render.command"), flags.RstCommand),
		Args:            viper.GetStringSlice("render.args"),
		HaltLevel:       viper.GetString("render.halt_level"),
		ReportLevel:     viper.GetString("render.report_level"),
		Timeout:         viper.GetDuration("render.timeout"),
		BreakerFailures: viper.GetUint32("render.breaker_failures"),
		BreakerCooldown: viper.GetDuration("render.breaker_cooldown"),
	}
	if renderConfig.Engine == "" {
		renderConfig.Engine = defaults.Engine
	}
	if renderConfig.Command == "" {
		renderConfig.Command = defaults.Command
	}

	settings := &Settings{
		Render:          renderConfig,
		PreviewRendered: boolOr("editor.preview", flags.Preview),
		AutoReload:      boolOr("editor.auto_reload", flags.AutoReload),
		HistoryEnabled:  viper.GetBool("history.enabled") && !flags.NoHistory,
		HistoryDB:       stringOr(viper.GetString("history.database"), flags.HistoryDB),
		LogLevel:        stringOr(viper.GetString("log.level"), flags.LogLevel),
	}
	if settings.HistoryDB == "" {
		settings.HistoryDB = history.DefaultPath()
	}
	return settings
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func boolOr(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}
