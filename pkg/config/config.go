package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Business BusinessConfig `mapstructure:"business"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Email    EmailConfig    `mapstructure:"email"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Poller   PollerConfig   `mapstructure:"poller"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
	Host     string `mapstructure:"host"`
	GRPCPort int    `mapstructure:"grpc_port"`
}

type DatabaseConfig struct {
	Driver       string      `mapstructure:"driver"`
	Path         string      `mapstructure:"path"`
	MySQL        MySQLConfig `mapstructure:"mysql"`
	MaxIdleConns int         `mapstructure:"max_idle_conns"`
	MaxOpenConns int         `mapstructure:"max_open_conns"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	// Loc is the connection time zone; it defaults to business.timezone so
	// stored timestamps read back as business-local.
	Loc string `mapstructure:"loc"`
}

type BusinessConfig struct {
	Name     string `mapstructure:"name"`
	Timezone string `mapstructure:"timezone"`
}

type OrdersConfig struct {
	DefaultLimit      int  `mapstructure:"default_limit"`
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpire     time.Duration `mapstructure:"jwt_expire"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Owner    string `mapstructure:"owner"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MongoDBConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Limit    int           `mapstructure:"limit"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Load reads the YAML file at configPath (optional when empty) and applies
// FRESHBREAD_* environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FRESHBREAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := config.Business.Location(); err != nil {
		return nil, err
	}
	if config.Database.MySQL.Loc == "" {
		config.Database.MySQL.Loc = config.Business.Timezone
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "freshbread-api")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.grpc_port", 0)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "database/freshbread.db")
	v.SetDefault("database.mysql.host", "127.0.0.1")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.username", "")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "freshbread")
	v.SetDefault("database.mysql.loc", "")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)

	v.SetDefault("business.name", "Fresh Hot Bread All Day")
	v.SetDefault("business.timezone", "America/Los_Angeles")

	v.SetDefault("orders.default_limit", 50)
	v.SetDefault("orders.strict_transitions", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expire", 7*24*time.Hour)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.owner", "")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5500", "http://127.0.0.1:5500", "http://localhost:3000", "http://localhost:5000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("etcd.endpoints", []string{})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "freshbread")
	v.SetDefault("mongodb.collection", "audit_logs")

	v.SetDefault("poller.interval", 30*time.Second)
	v.SetDefault("poller.base_url", "")
	v.SetDefault("poller.username", "admin")
	v.SetDefault("poller.password", "")
	v.SetDefault("poller.limit", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

func (c *MySQLConfig) DSN() string {
	loc := c.Loc
	if loc == "" {
		loc = "Local"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, url.QueryEscape(loc))
}

// Location resolves the business time zone used for "today" and for
// order timestamps.
func (c *BusinessConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *EmailConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

func (c *EmailConfig) Recipient() string {
	if c.Owner != "" {
		return c.Owner
	}
	return c.Username
}

func (c *EmailConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
