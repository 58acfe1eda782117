package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                 string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	Issuer    string        `env:"TASKBOARD_ISSUER"     envDefault:"taskboard"`
	NumKeys   int           `env:"TASKBOARD_NUM_KEYS"   envDefault:"3"` // clamped to [1, 10]
	AccessTTL time.Duration `env:"TASKBOARD_ACCESS_TTL" envDefault:"1h"`

	DatabaseDriver string        `env:"TASKBOARD_DATABASE_DRIVER" envDefault:"sqlite"` // sqlite, postgres
	DatabaseFile   string        `env:"TASKBOARD_DATABASE_FILE"   envDefault:"taskboard.db"`
	DatabaseURL    string        `env:"TASKBOARD_DATABASE_URL"` // required for postgres
	PepperFile     string        `env:"TASKBOARD_PEPPER_FILE"     envDefault:"pepper"`
	StoreTimeout   time.Duration `env:"TASKBOARD_STORE_TIMEOUT"   envDefault:"5s"`

	// CORSOrigins is a comma separated allow-list. Empty disables CORS.
	CORSOrigins []string `env:"TASKBOARD_CORS_ORIGINS" envSeparator:","`

	OTelEnabled  bool   `env:"OTEL_ENABLED"  envDefault:"false"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"` // OTLP/HTTP, e.g. http://collector:4318
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("TASKBOARD_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("TASKBOARD_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TASKBOARD_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.Issuer == "" {
		errs = append(errs, errors.New("TASKBOARD_ISSUER must not be empty"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("TASKBOARD_ACCESS_TTL must be positive"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("TASKBOARD_STORE_TIMEOUT must be positive"))
	}
	if c.OTelEnabled && c.OTelEndpoint == "" {
		errs = append(errs, errors.New("OTEL_ENDPOINT is required when OTEL_ENABLED is set"))
	}

	return errors.Join(errs...)
}
