package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=30m"`
	BcryptCost int           `env:"BCRYPT_COST, default=12"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`

	Admin     AdminConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Predictor PredictorConfig
}

// AdminConfig seeds the default administrator account at startup when no
// account with that email exists yet.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL,    default=admin@salud.co"`
	Password string `env:"ADMIN_PASSWORD"`
	FullName string `env:"ADMIN_NAME,     default=System Administrator"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=profiling"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// PredictorConfig points at the model-serving backend. Timeout bounds every
// prediction call; a timed-out call surfaces as "prediction unavailable".
type PredictorConfig struct {
	URL     string        `env:"PREDICTOR_URL,     default=http://localhost:8501/predict"`
	Timeout time.Duration `env:"PREDICTOR_TIMEOUT, default=10s"`
	Workers int           `env:"RECOMPUTE_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
