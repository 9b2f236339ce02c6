package config

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Network    string `env:"NETWORK,default=sepolia"`
	RPCURL     string `env:"RPC_URL"`
	PrivateKey string `env:"PRIVATE_KEY"`
	SentryURL  string `env:"SENTRY_URL"`
	APIKey     string `env:"API_KEY"`

	// optional transaction journal
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBHost     string `env:"DB_HOST"`
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasJournal reports whether the optional transaction journal is configured.
func (c *Config) HasJournal() bool {
	return c.DBUser != "" && c.DBName != "" && c.DBHost != ""
}
