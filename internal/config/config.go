package config

import (
	"errors"
	"fmt"
	"os"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	port            string
	dBHost          string
	dBPassword      string
	dBUsername      string
	sentryDSN       string
	osuClientID     string
	osuClientSecret string
	difficultyURL   string
	env             environment
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) DBHost() string {
	return c.dBHost
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) OsuClientID() string {
	return c.osuClientID
}

func (c *Config) OsuClientSecret() string {
	return c.osuClientSecret
}

func (c *Config) DifficultyModelURL() string {
	return c.difficultyURL
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, ...}", string(c.env), c.port)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("HITCIRCLE_ENVIRONMENT")
	if !ok {
		return missingKey("HITCIRCLE_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: HITCIRCLE_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbHost := os.Getenv("DB_HOST")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	osuClientID := os.Getenv("OSU_CLIENT_ID")
	osuClientSecret := os.Getenv("OSU_CLIENT_SECRET")
	difficultyURL := os.Getenv("DIFFICULTY_MODEL_URL")

	if env == production || env == staging {
		if dbHost == "" {
			return missingKey("DB_HOST")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
		if osuClientID == "" {
			return missingKey("OSU_CLIENT_ID")
		}
		if osuClientSecret == "" {
			return missingKey("OSU_CLIENT_SECRET")
		}
		if difficultyURL == "" {
			return missingKey("DIFFICULTY_MODEL_URL")
		}
	}

	return Config{
		port:            port,
		dBHost:          dbHost,
		dBPassword:      dbPassword,
		dBUsername:      dbUsername,
		sentryDSN:       sentryDSN,
		osuClientID:     osuClientID,
		osuClientSecret: osuClientSecret,
		difficultyURL:   difficultyURL,
		env:             env,
	}, nil
}
