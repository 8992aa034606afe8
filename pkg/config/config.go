package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv       string  `envconfig:"APP_ENV"`
	Port         int     `envconfig:"PORT" default:"8080"`
	GRPCPort     int     `envconfig:"GRPC_PORT"`
	SentryDSN    string  `envconfig:"SENTRY_DSN"`
	AllowOrigins string  `envconfig:"ALLOW_ORIGINS"`
	RateLimit    float64 `envconfig:"RATE_LIMIT" default:"20"`

	DB struct {
		Driver        string        `envconfig:"DB_DRIVER" default:"mongodb"`
		MongoURI      string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
		MongoDatabase string        `envconfig:"MONGODB_DATABASE" default:"moviecatalog"`
		Name          string        `envconfig:"DB_NAME"`
		Host          string        `envconfig:"DB_HOST"`
		Port          int           `envconfig:"DB_PORT" default:"5432"`
		User          string        `envconfig:"DB_USER"`
		Pass          string        `envconfig:"DB_PASS"`
		EnableSSL     bool          `envconfig:"ENABLE_SSL"`
		QueryTimeout  time.Duration `envconfig:"DB_QUERY_TIMEOUT" default:"10s"`
	}
	Auth struct {
		JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}
	Catalog struct {
		PageSize        int    `envconfig:"CATALOG_PAGE_SIZE" default:"20"`
		APIPageSize     int    `envconfig:"CATALOG_API_PAGE_SIZE" default:"20"`
		PosterURLPrefix string `envconfig:"POSTER_URL_PREFIX" default:"https://image.tmdb.org/"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS on commas. An empty setting allows every origin.
func (c *Config) Origins() []string {
	if strings.TrimSpace(c.AllowOrigins) == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}
