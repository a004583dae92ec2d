package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App           App           `yaml:"app"`
	HTTP          HTTP          `yaml:"http"`
	Log           Log           `yaml:"log"`
	Travelpayouts Travelpayouts `yaml:"travelpayouts"`
	Postgres      Postgres      `yaml:"postgres"`
	Redis         Redis         `yaml:"redis"`
	Kafka         Kafka         `yaml:"kafka"`
	PriceCheck    PriceCheck    `yaml:"price_check"`
}

type App struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"aviasales-scraper"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type HTTP struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Travelpayouts struct {
	Token    string `yaml:"token" env:"TRAVELPAYOUTS_API_TOKEN"`
	Endpoint string `yaml:"endpoint" env:"TRAVELPAYOUTS_ENDPOINT" env-default:"https://api.travelpayouts.com/graphql/v1"`
}

type Postgres struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// Redis is optional; with an empty Addr the idempotency middleware is not
// installed.
type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:""`
}

// Kafka is optional; with no brokers configured no events are published.
type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:""`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"ticket-events"`
}

// PriceCheck configures the default route used by the manual
// /api/run-price-check trigger and the pricecheck CLI. Dates are computed
// relative to "now" so the default search never goes stale.
type PriceCheck struct {
	Origin         string `yaml:"origin" env:"PRICE_CHECK_ORIGIN" env-default:"YUL"`
	Destination    string `yaml:"destination" env:"PRICE_CHECK_DESTINATION" env-default:"YVR"`
	DaysAhead      int    `yaml:"days_ahead" env:"PRICE_CHECK_DAYS_AHEAD" env-default:"30"`
	WindowDays     int    `yaml:"window_days" env:"PRICE_CHECK_WINDOW_DAYS" env-default:"4"`
	TripLengthDays int    `yaml:"trip_length_days" env:"PRICE_CHECK_TRIP_LENGTH_DAYS" env-default:"13"`
	Currency       string `yaml:"currency" env:"PRICE_CHECK_CURRENCY" env-default:"cad"`
	Limit          int    `yaml:"limit" env:"PRICE_CHECK_LIMIT" env-default:"5"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
