package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultPath = "./configs/.env"

type Config struct {
	GRPCServerHost string `env:"GRPC_SERVER_HOST" env-default:"localhost"`
	GRPCServerPort int    `env:"GRPC_SERVER_PORT" env-default:"9090"`
	RESTServerHost string `env:"REST_SERVER_HOST" env-default:"localhost"`
	RESTServerPort int    `env:"REST_SERVER_PORT" env-default:"8080"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"debug"`
}

// New reads the .env file named by CONFIG_PATH when it exists, then the process environment.
func New() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}

	return Load(path)
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.GRPCServerPort <= 0 || cfg.RESTServerPort <= 0 {
		return nil, fmt.Errorf("invalid ports: grpc=%d rest=%d", cfg.GRPCServerPort, cfg.RESTServerPort)
	}

	return &cfg, nil
}

func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.GRPCServerHost, c.GRPCServerPort)
}

func (c *Config) RESTAddr() string {
	return fmt.Sprintf("%s:%d", c.RESTServerHost, c.RESTServerPort)
}
