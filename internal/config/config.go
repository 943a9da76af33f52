package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the idempotency cache. An empty Addr disables it.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR" envDefault:""`
	Password       string        `env:"REDIS_PASSWORD" envDefault:""`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// MongoConfig configures the durable audit sink. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:""`
	Database string `env:"MONGO_DB" envDefault:"wallet_audit"`
}

// RabbitMQConfig configures domain event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL      string `env:"RABBITMQ_URL" envDefault:""`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"wallet_events"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}
