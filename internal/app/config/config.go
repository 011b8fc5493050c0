package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	defaultPostalLookupAddr    = "https://viacep.com.br/ws/"
	defaultPostalLookupTimeout = 3 * time.Second
)

type Config struct {
	NetAddr   string `env:"RUN_ADDRESS"`
	DBConnect string `env:"DATABASE_URI"`
	LogLevel  string `env:"LOG_LEVEL"`

	TokenSecret string `env:"TOKEN_SECRET"`

	PostalLookupAddr     string        `env:"POSTAL_LOOKUP_ADDRESS"`
	PostalLookupTimeout  time.Duration `env:"POSTAL_LOOKUP_TIMEOUT"`
	PostalLookupRequired bool          `env:"POSTAL_LOOKUP_REQUIRED"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC"`
}

func InitConfig() (config Config) {
	flag.StringVar(&config.NetAddr, "a", "localhost:8080", "net address host:port")
	flag.StringVar(&config.DBConnect, "d", "", "database credentials in format: host=host port=port user=myuser password=xxxx dbname=mydb sslmode=disable")
	flag.StringVar(&config.LogLevel, "l", "info", "log level")
	flag.StringVar(&config.TokenSecret, "s", "", "secret used to verify team member bearer tokens")
	flag.StringVar(&config.PostalLookupAddr, "p", defaultPostalLookupAddr, "postal code lookup service address")
	flag.DurationVar(&config.PostalLookupTimeout, "t", defaultPostalLookupTimeout, "postal code lookup timeout")
	flag.BoolVar(&config.PostalLookupRequired, "r", true, "fail order creation when postal code lookup is unavailable")
	flag.StringVar(&config.KafkaBrokers, "k", "", "comma separated kafka brokers for order events, empty disables events")
	flag.StringVar(&config.KafkaTopic, "topic", "orders", "kafka topic for order events")
	flag.Parse()

	if err := env.Parse(&config); err != nil {
		panic(fmt.Errorf("error while parsing config: %w", err))
	}

	return
}
