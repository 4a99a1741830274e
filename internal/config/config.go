// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "LIGHTNING"

	DefaultSummaryTpl = "{{if .LabelText}}{{emojiSpace .LabelIcon}}{{.LabelText}} {{end}}" +
		"{{floatFormat .Distance 2}} {{.DistanceUnit}} @ {{floatFormat .Result.BearingDeg 0}}° {{.Compass}} " +
		"±{{floatFormat .Radius 2}} {{.DistanceUnit}}"
	DefaultDetailsTpl = "{{loc \"target\"}}: {{floatFormat .Result.Target.Lat 5}}, {{floatFormat .Result.Target.Lon 5}}\n" +
		"{{loc \"delay\"}}: {{floatFormat .DelaySeconds 1}}s\n" +
		"{{loc \"samples\"}}: {{.Result.Samples}}\n" +
		"{{if .Place}}{{loc \"near\"}}: {{.Place}}\n{{end}}" +
		"{{if .Weather}}{{loc \"weather\"}}: {{emojiSpace .Weather.ConditionIcon}}{{.Weather.Condition}}\n{{end}}" +
		"{{loc \"moonphase\"}}: {{emojiSpace .MoonPhaseIcon}}{{loc .MoonPhase}}\n" +
		"{{if .Badge}}{{loc \"badge\"}}: {{.Badge}}\n{{end}}" +
		"{{if .SafetyWarning}}{{loc \"safety\"}}\n{{end}}"
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	// Turns off the playful close-strike label, which is shown by default
	DisableFunMode bool `fig:"disable_fun_mode"`

	Uncertainty struct {
		ReactionSeconds float64 `fig:"reaction_seconds" default:"0.25"`
		// Allowed values: 0 to 90
		CompassDeg float64 `fig:"compass_deg" default:"8"`
	} `fig:"uncertainty"`

	Sensor struct {
		// Allowed values: iio, static
		Source   string        `fig:"source" default:"iio"`
		Device   string        `fig:"device" default:"/sys/bus/iio/devices/iio:device0"`
		Interval time.Duration `fig:"interval" default:"100ms"`
		Invert   bool          `fig:"invert"`
		// Heading is returned by the static source and used when no sample was taken
		Heading float64 `fig:"heading"`
	} `fig:"sensor"`

	Location struct {
		// Allowed values: gpsd, geoclue, file, static, beacondb, geoip
		Sources   []string      `fig:"sources" default:"[gpsd,file]"`
		GPSDHost  string        `fig:"gpsd_host" default:"localhost"`
		GPSDPort  string        `fig:"gpsd_port" default:"2947"`
		File      string        `fig:"file"`
		Latitude  float64       `fig:"latitude"`
		Longitude float64       `fig:"longitude"`
		Accuracy  float64       `fig:"accuracy"`
		Timeout   time.Duration `fig:"timeout" default:"10s"`
	} `fig:"location"`

	Storage struct {
		Path         string `fig:"path"`
		HistoryLimit int    `fig:"history_limit" default:"20"`
	} `fig:"storage"`

	Weather struct {
		Enabled bool `fig:"enabled"`
	} `fig:"weather"`

	Geocode struct {
		Enabled      bool          `fig:"enabled"`
		CacheHitTTL  time.Duration `fig:"cache_hit_ttl" default:"24h"`
		CacheMissTTL time.Duration `fig:"cache_miss_ttl" default:"1h"`
	} `fig:"geocode"`

	Export struct {
		// Allowed values: 3 to 360
		Segments int `fig:"segments" default:"64"`
	} `fig:"export"`

	Templates struct {
		Summary string `fig:"summary"`
		Details string `fig:"details"`
	} `fig:"templates"`
}

var (
	sensorSources   = []string{"iio", "static"}
	locationSources = []string{"gpsd", "geoclue", "file", "static", "beacondb", "geoip"}
)

// FunMode reports whether the playful labels are enabled.
func (c *Config) FunMode() bool {
	return !c.DisableFunMode
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks the configured values and fills in defaults that depend on the
// environment.
func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Uncertainty.ReactionSeconds < 0 {
		return fmt.Errorf("invalid reaction seconds: %f", c.Uncertainty.ReactionSeconds)
	}
	if c.Uncertainty.CompassDeg < 0 || c.Uncertainty.CompassDeg > 90 {
		return fmt.Errorf("invalid compass degrees: %f", c.Uncertainty.CompassDeg)
	}

	if !slices.Contains(sensorSources, c.Sensor.Source) {
		return fmt.Errorf("invalid sensor source: %s", c.Sensor.Source)
	}
	if c.Sensor.Interval <= 0 {
		return fmt.Errorf("invalid sensor interval: %s", c.Sensor.Interval)
	}

	if len(c.Location.Sources) == 0 {
		return fmt.Errorf("at least one location source is required")
	}
	for _, source := range c.Location.Sources {
		if !slices.Contains(locationSources, source) {
			return fmt.Errorf("invalid location source: %s", source)
		}
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", c.Location.Longitude)
	}
	if c.Location.Accuracy < 0 {
		return fmt.Errorf("invalid location accuracy: %f", c.Location.Accuracy)
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("invalid location timeout: %s", c.Location.Timeout)
	}
	if c.Location.File == "" {
		home, _ := os.UserHomeDir()
		c.Location.File = filepath.Join(home, ".config", "lightning-locator", "location")
	}

	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath()
	}
	if c.Storage.HistoryLimit < 0 {
		return fmt.Errorf("invalid history limit: %d", c.Storage.HistoryLimit)
	}
	if c.Geocode.CacheHitTTL <= 0 || c.Geocode.CacheMissTTL <= 0 {
		return fmt.Errorf("invalid geocode cache TTLs: %s/%s", c.Geocode.CacheHitTTL, c.Geocode.CacheMissTTL)
	}
	if c.Export.Segments < 3 || c.Export.Segments > 360 {
		return fmt.Errorf("invalid export segments: %d", c.Export.Segments)
	}

	if c.Templates.Summary == "" {
		c.Templates.Summary = DefaultSummaryTpl
	}
	if c.Templates.Details == "" {
		c.Templates.Details = DefaultDetailsTpl
	}

	return nil
}

// defaultStoragePath returns the strike history location below $XDG_DATA_HOME, falling
// back to ~/.local/share.
func defaultStoragePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lightning-locator", "strikes.db")
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
