// Package config loads the pipeline, source, forecast backend, dashboard and server settings from
// a yaml file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/dashboard"
	"github.com/aouyang1/go-pricecast/linearforecast"
	"github.com/aouyang1/go-pricecast/overlay"
	"github.com/aouyang1/go-pricecast/source"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "PRICECAST_"

var ErrInvalidConfig = errors.New("invalid config")

// SourceConfig selects the html page or a local csv export as the table source
type SourceConfig struct {
	URL       string        `yaml:"url" env:"URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT"`

	// CSVPath takes precedence over URL when set
	CSVPath  string `yaml:"csv_path" env:"CSV_PATH"`
	CSVComma string `yaml:"csv_comma" env:"CSV_COMMA"`
}

// EventConfig is a chart event with its date in YYYY-MM-DD form
type EventConfig struct {
	Label string `yaml:"label"`
	Date  string `yaml:"date"`
}

// PipelineConfig mirrors pricecast.Options with dates in YYYY-MM-DD form
type PipelineConfig struct {
	TableIndex              int     `yaml:"table_index" env:"TABLE_INDEX"`
	TestFraction            float64 `yaml:"test_fraction" env:"TEST_FRACTION"`
	HorizonDays             int     `yaml:"horizon_days" env:"HORIZON_DAYS"`
	WindowLength            int     `yaml:"window_length" env:"WINDOW_LENGTH"`
	ForecastTableFutureOnly bool    `yaml:"forecast_table_future_only" env:"FORECAST_TABLE_FUTURE_ONLY"`
	HistoryCutoff           string  `yaml:"history_cutoff" env:"HISTORY_CUTOFF"`
	ForecastCutoff          string  `yaml:"forecast_cutoff" env:"FORECAST_CUTOFF"`

	Events []EventConfig `yaml:"events" env:"-"`
}

// ServerConfig sets the listen address and the cron schedule of the background refresh. An
// empty schedule disables the refresh.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	RefreshCron  string        `yaml:"refresh_cron" env:"REFRESH_CRON"`
	RunTimeout   time.Duration `yaml:"run_timeout" env:"RUN_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// LogConfig sets the level and the text or json format of the default logger
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Config holds every setting of the pricecast command
type Config struct {
	Source    SourceConfig            `yaml:"source" envPrefix:"SOURCE_"`
	Pipeline  PipelineConfig          `yaml:"pipeline" envPrefix:"PIPELINE_"`
	Forecast  *linearforecast.Options `yaml:"forecast" env:"-"`
	Dashboard *dashboard.Options      `yaml:"dashboard" env:"-"`
	Server    ServerConfig            `yaml:"server" envPrefix:"SERVER_"`
	Log       LogConfig               `yaml:"log" envPrefix:"LOG_"`
}

// Default returns the settings of the brent dashboard
func Default() *Config {
	popt := pricecast.NewDefaultOptions()
	events := make([]EventConfig, 0, len(popt.Events))
	for _, e := range popt.Events {
		events = append(events, EventConfig{Label: e.Label, Date: e.Date.Format(time.DateOnly)})
	}
	return &Config{
		Source: SourceConfig{
			URL:       source.DefaultURL,
			Timeout:   source.DefaultTimeout,
			UserAgent: source.DefaultUserAgent,
			CSVComma:  ",",
		},
		Pipeline: PipelineConfig{
			TableIndex:              popt.TableIndex,
			TestFraction:            popt.TestFraction,
			HorizonDays:             popt.HorizonDays,
			WindowLength:            popt.WindowLength,
			ForecastTableFutureOnly: popt.ForecastTableFutureOnly,
			HistoryCutoff:           popt.HistoryCutoff.Format(time.DateOnly),
			ForecastCutoff:          popt.ForecastCutoff.Format(time.DateOnly),
			Events:                  events,
		},
		Forecast:  linearforecast.NewDefaultOptions(),
		Dashboard: dashboard.NewDefaultOptions(),
		Server: ServerConfig{
			Addr:         ":8080",
			RefreshCron:  "0 6 * * *",
			RunTimeout:   5 * time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load starts from the defaults, applies the yaml file at path when it exists and then the
// PRICECAST_ prefixed environment variables, also read from a .env file when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unable to parse config, %w", err)
			}
		}
	}

	_ = godotenv.Load()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("unable to parse environment, %w", err)
	}

	if cfg.Forecast == nil {
		cfg.Forecast = linearforecast.NewDefaultOptions()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section that has no validation of its own at use time
func (c *Config) Validate() error {
	if c.Source.CSVPath == "" && c.Source.URL == "" {
		return fmt.Errorf("%w: either source url or csv path is required", ErrInvalidConfig)
	}
	if c.Source.CSVPath != "" {
		if _, err := c.Source.comma(); err != nil {
			return err
		}
	}
	popt, err := c.PipelineOptions()
	if err != nil {
		return err
	}
	if err := popt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Forecast != nil {
		if err := c.Forecast.Validate(); err != nil {
			return fmt.Errorf("%w: forecast, %w", ErrInvalidConfig, err)
		}
	}
	if c.Server.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Server.RefreshCron); err != nil {
			return fmt.Errorf("%w: refresh cron %q, %w", ErrInvalidConfig, c.Server.RefreshCron, err)
		}
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q, expected text or json", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func parseDate(name, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q, %w", ErrInvalidConfig, name, v, err)
	}
	return t, nil
}

// PipelineOptions converts the pipeline section into pricecast options
func (c *Config) PipelineOptions() (*pricecast.Options, error) {
	p := c.Pipeline
	historyCutoff, err := parseDate("history cutoff", p.HistoryCutoff)
	if err != nil {
		return nil, err
	}
	forecastCutoff, err := parseDate("forecast cutoff", p.ForecastCutoff)
	if err != nil {
		return nil, err
	}

	events := make([]overlay.Event, 0, len(p.Events))
	for _, e := range p.Events {
		date, err := parseDate("event "+e.Label, e.Date)
		if err != nil {
			return nil, err
		}
		events = append(events, overlay.Event{Label: e.Label, Date: date})
	}

	return &pricecast.Options{
		TableIndex:              p.TableIndex,
		TestFraction:            p.TestFraction,
		HorizonDays:             p.HorizonDays,
		WindowLength:            p.WindowLength,
		ForecastTableFutureOnly: p.ForecastTableFutureOnly,
		HistoryCutoff:           historyCutoff,
		ForecastCutoff:          forecastCutoff,
		Events:                  events,
	}, nil
}

func (s SourceConfig) comma() (rune, error) {
	if s.CSVComma == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(s.CSVComma)
	if size != len(s.CSVComma) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: csv comma %q must be a single character", ErrInvalidConfig, s.CSVComma)
	}
	return r, nil
}

// Fetcher returns the csv fetcher when a csv path is set and the html fetcher otherwise
func (s SourceConfig) Fetcher() (source.Fetcher, error) {
	if s.CSVPath != "" {
		comma, err := s.comma()
		if err != nil {
			return nil, err
		}
		return source.NewCSVFetcher(s.CSVPath, comma), nil
	}
	f := source.NewHTMLFetcher(s.URL, s.Timeout)
	if s.UserAgent != "" {
		f.UserAgent = s.UserAgent
	}
	return f, nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("%w: log level, %w", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// Logger builds a text or json logger writing to w at the configured level
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	hopt := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopt)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopt)), nil
}
