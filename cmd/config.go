package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"orders/internal/adapters/out/security"
	"orders/internal/jobs"
	"orders/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	JWTSecret     string
	JWTTTL        time.Duration
	SweepSchedule string
	BcryptCost    int
}

// ConfigFromEnv builds the configuration from lookup, which is normally os.Getenv.
// Unset optional values get defaults; JWT_SECRET is mandatory.
func ConfigFromEnv(lookup func(string) string) (Config, error) {
	config := Config{
		HTTPPort:      valueOr(lookup("HTTP_PORT"), "8080"),
		DBHost:        valueOr(lookup("DB_HOST"), "localhost"),
		DBPort:        valueOr(lookup("DB_PORT"), "5432"),
		DBUser:        lookup("DB_USER"),
		DBPassword:    lookup("DB_PASSWORD"),
		DBName:        lookup("DB_NAME"),
		DBSslMode:     valueOr(lookup("DB_SSLMODE"), "disable"),
		JWTSecret:     lookup("JWT_SECRET"),
		JWTTTL:        security.DefaultTokenTTL,
		SweepSchedule: valueOr(lookup("SWEEP_SCHEDULE"), jobs.DefaultSweepSchedule),
		BcryptCost:    bcrypt.DefaultCost,
	}

	var parseErrs []error

	if raw := lookup("JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("JWT_TTL", err))
		}
		config.JWTTTL = ttl
	}

	if raw := lookup("BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("BCRYPT_COST", err))
		}
		config.BcryptCost = cost
	}

	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var validationErrs []error

	if c.JWTSecret == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("JWT_SECRET"))
	}
	if c.DBName == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("DB_NAME"))
	}
	if c.JWTTTL <= 0 {
		validationErrs = append(validationErrs, errs.NewValueIsInvalidError("JWT_TTL"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		validationErrs = append(validationErrs,
			errs.NewValueIsOutOfRangeError("BCRYPT_COST", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(validationErrs...)
}

// DSN is the libpq-style connection string understood by the pgx driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
