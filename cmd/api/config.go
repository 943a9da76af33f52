package main

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fastprodman/walletsvc/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        zerolog.Level `env:"APP_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Mongo    config.MongoConfig
	RabbitMQ config.RabbitMQConfig
	Auth     config.AuthConfig
}
