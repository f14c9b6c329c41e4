// Package config содержит логику чтения конфигурации сервиса фудкарт.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultGeocoderAddress = "https://geocode-maps.yandex.ru/1.x"

// Config содержит параметры конфигурации сервиса фудкарт.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	DatabaseURI     string `env:"DATABASE_URI"`
	GeocoderAPIKey  string `env:"GEOCODER_API_KEY"`
	GeocoderAddress string `env:"GEOCODER_ADDRESS"`
}

// Parse считывает конфигурацию из файла .env, переменных окружения и флагов
// командной строки. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// Файл .env необязателен.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envGeocoderAPIKey := cfg.GeocoderAPIKey
	envGeocoderAddress := cfg.GeocoderAddress

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.GeocoderAPIKey, "k", "", "geocoder API key")
	flag.StringVar(&cfg.GeocoderAddress, "g", defaultGeocoderAddress, "geocoder base URL")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envGeocoderAPIKey != "" {
		cfg.GeocoderAPIKey = envGeocoderAPIKey
	}
	if envGeocoderAddress != "" {
		cfg.GeocoderAddress = envGeocoderAddress
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.GeocoderAddress == "" {
		cfg.GeocoderAddress = defaultGeocoderAddress
	}

	return cfg, nil
}
