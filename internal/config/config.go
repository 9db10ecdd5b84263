package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// ZeroStockPolicy decides what happens to a product whose stock reaches
// zero during checkout.
type ZeroStockPolicy string

const (
	KeepOutOfStock   ZeroStockPolicy = "keep"
	DeleteOutOfStock ZeroStockPolicy = "delete"
)

type Config struct {
	DatabaseDSN     string `envconfig:"DB_DSN"            required:"true"`
	Port            string `envconfig:"APP_PORT"          default:"8080"`
	SessionSecret   string `envconfig:"SESSION_SECRET"    default:"dev_fallback_secret"`
	UploadDir       string `envconfig:"UPLOAD_DIR"        default:"uploads"`
	ZeroStockPolicy string `envconfig:"ZERO_STOCK_POLICY" default:"keep"`
	LogLevel        string `envconfig:"LOG_LEVEL"         default:"info"`
}

// Load reads .env (current dir, parent, repo root — same lookup the server
// always used) and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Overload(".env", "../.env", "../../.env"); err != nil && !os.IsNotExist(err) {
		logger.Warnf("config: could not load .env: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("config: unknown LOG_LEVEL %q, keeping %s", cfg.LogLevel, logger.GetLevel())
	}

	switch ZeroStockPolicy(strings.ToLower(cfg.ZeroStockPolicy)) {
	case KeepOutOfStock, DeleteOutOfStock:
	default:
		logger.Warnf("config: unknown ZERO_STOCK_POLICY %q, falling back to keep", cfg.ZeroStockPolicy)
		cfg.ZeroStockPolicy = string(KeepOutOfStock)
	}

	return &cfg, nil
}

// Policy returns the parsed zero-stock policy.
func (c *Config) Policy() ZeroStockPolicy {
	if ZeroStockPolicy(strings.ToLower(c.ZeroStockPolicy)) == DeleteOutOfStock {
		return DeleteOutOfStock
	}
	return KeepOutOfStock
}
