package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"priceview/internal/logging"
)

// Source kinds understood by the loader.
const (
	SourceCSV        = "csv"
	SourceXLSX       = "xlsx"
	SourcePostgres   = "postgres"
	SourceSQLite     = "sqlite"
	SourceClickHouse = "clickhouse"
	SourceHTTP       = "http"
)

// Cache backends for rendered charts.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	Source  SourceConfig   `mapstructure:"source"`
	Server  ServerConfig   `mapstructure:"server"`
	Cache   CacheConfig    `mapstructure:"cache"`
	Chart   ChartConfig    `mapstructure:"chart"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// SourceConfig describes where observations are loaded from.
type SourceConfig struct {
	Kind            string        `mapstructure:"kind"`
	Path            string        `mapstructure:"path"`
	Sheet           string        `mapstructure:"sheet"`
	Delimiter       string        `mapstructure:"delimiter"`
	DSN             string        `mapstructure:"dsn"`
	Query           string        `mapstructure:"query"`
	URL             string        `mapstructure:"url"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	DateLayouts     []string      `mapstructure:"date_layouts"`
	Columns         ColumnsConfig `mapstructure:"columns"`
}

// ColumnsConfig names the required input columns.
type ColumnsConfig struct {
	Product string `mapstructure:"product"`
	Date    string `mapstructure:"date"`
	Price   string `mapstructure:"price"`
}

// ServerConfig governs the HTTP shell.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            bool          `mapstructure:"cors"`
}

// CacheConfig selects the rendered chart cache.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig covers Redis connectivity.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ChartConfig sets rendered chart dimensions.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICEVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Source.Kind = cfg.Source.ResolveKind()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "priceview")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("source.kind", "")
	v.SetDefault("source.path", "product_price_demo_data_2025.xlsx")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.delimiter", "")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.query", `SELECT "Product", "Date", "Price_USD" FROM prices`)
	v.SetDefault("source.url", "")
	v.SetDefault("source.user_agent", "priceview/1.0")
	v.SetDefault("source.timeout", "30s")
	v.SetDefault("source.max_conns", 4)
	v.SetDefault("source.conn_max_lifetime", "30m")
	v.SetDefault("source.columns.product", "Product")
	v.SetDefault("source.columns.date", "Date")
	v.SetDefault("source.columns.price", "Price_USD")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors", false)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "priceview:chart:")

	v.SetDefault("chart.width", 1280)
	v.SetDefault("chart.height", 720)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// ResolveKind returns the configured kind, or infers one from the file extension.
func (s SourceConfig) ResolveKind() string {
	if s.Kind != "" {
		return strings.ToLower(s.Kind)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".tsv", ".txt":
		return SourceCSV
	case ".xlsx", ".xlsm":
		return SourceXLSX
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	}
	return ""
}

// CSVDelimiter returns the configured delimiter. When none is set, .tsv paths
// use a tab and everything else a comma.
func (s SourceConfig) CSVDelimiter() string {
	if s.Delimiter != "" {
		return s.Delimiter
	}
	if strings.EqualFold(filepath.Ext(s.Path), ".tsv") {
		return `\t`
	}
	return ","
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV, SourceXLSX:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for %s sources", c.Source.Kind)
		}
	case SourceSQLite:
		if c.Source.Path == "" && c.Source.DSN == "" {
			return fmt.Errorf("source.path or source.dsn is required for sqlite sources")
		}
	case SourcePostgres, SourceClickHouse:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for %s sources", c.Source.Kind)
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("source.url is required for http sources")
		}
	case "":
		return fmt.Errorf("source.kind is required when it cannot be inferred from source.path %q", c.Source.Path)
	default:
		return fmt.Errorf("source.kind %q is not supported", c.Source.Kind)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout cannot be negative")
	}
	if c.Source.ConnMaxLifetime < 0 {
		return fmt.Errorf("source.conn_max_lifetime cannot be negative")
	}
	if d := c.Source.Delimiter; c.Source.Kind == SourceCSV && d != `\t` && len([]rune(d)) > 1 {
		return fmt.Errorf(`source.delimiter must be a single character or \t`)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis cache")
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries cannot be negative")
	}

	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be greater than zero")
	}
	return nil
}

// ColumnNames returns the configured column names, falling back to the defaults.
func (s SourceConfig) ColumnNames() (product, date, price string) {
	product, date, price = s.Columns.Product, s.Columns.Date, s.Columns.Price
	if product == "" {
		product = "Product"
	}
	if date == "" {
		date = "Date"
	}
	if price == "" {
		price = "Price_USD"
	}
	return product, date, price
}
