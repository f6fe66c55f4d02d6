package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

const EnvironmentPrefix = "RAILRESERVE_"

const (
	DefaultBackendAddress = "http://127.0.0.1:5000"
	DefaultRequestTimeout = 15 * time.Second
	DefaultRetryAttempts  = 3
	DefaultSessionTTL     = 12 * time.Hour
	DefaultListen         = ":8080"
)

type Config struct {
	BackendAddress string
	RequestTimeout time.Duration
	RetryAttempts  int
	SessionTTL     time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDatabase int

	Listen string
}

// Redis is only used when an address has been set explicitly
func (c Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

type fileConfig struct {
	BackendAddress string `yaml:"backend_address"`
	RequestTimeout string `yaml:"request_timeout"`
	RetryAttempts  int    `yaml:"retry_attempts"`
	SessionTTL     string `yaml:"session_ttl"`
	Listen         string `yaml:"listen"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		Database int    `yaml:"database"`
	} `yaml:"redis"`
}

func Default() Config {
	return Config{
		BackendAddress: DefaultBackendAddress,
		RequestTimeout: DefaultRequestTimeout,
		RetryAttempts:  DefaultRetryAttempts,
		SessionTTL:     DefaultSessionTTL,
		Listen:         DefaultListen,
	}
}

func Load() (Config, error) {
	return LoadFrom(GetEnvironmentVariables())
}

// LoadFrom applies the optional YAML file named by RAILRESERVE_CONFIG and then the
// environment on top of the defaults
func LoadFrom(env map[string]string) (Config, error) {
	config := Default()

	if path := env[EnvironmentPrefix+"CONFIG"]; path != "" {
		contents, err := os.ReadFile(path)
		if err != nil {
			return config, err
		}

		if err := config.applyYAML(contents); err != nil {
			return config, fmt.Errorf("config file %s: %w", path, err)
		}

		log.Debug().Str("path", path).Msg("Loaded config file")
	}

	if err := config.applyEnvironment(env); err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) applyYAML(contents []byte) error {
	var file fileConfig

	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return err
	}

	if file.BackendAddress != "" {
		c.BackendAddress = file.BackendAddress
	}
	if file.RequestTimeout != "" {
		timeout, err := ParseDuration(file.RequestTimeout)
		if err != nil {
			return err
		}
		c.RequestTimeout = timeout
	}
	if file.RetryAttempts > 0 {
		c.RetryAttempts = file.RetryAttempts
	}
	if file.SessionTTL != "" {
		ttl, err := ParseDuration(file.SessionTTL)
		if err != nil {
			return err
		}
		c.SessionTTL = ttl
	}
	if file.Listen != "" {
		c.Listen = file.Listen
	}

	c.RedisAddress = file.Redis.Address
	c.RedisPassword = file.Redis.Password
	c.RedisDatabase = file.Redis.Database

	return nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if value := env[EnvironmentPrefix+"BACKEND_ADDRESS"]; value != "" {
		c.BackendAddress = value
	}

	if value := env[EnvironmentPrefix+"REQUEST_TIMEOUT"]; value != "" {
		timeout, err := ParseDuration(value)
		if err != nil {
			return err
		}
		c.RequestTimeout = timeout
	}

	if value := env[EnvironmentPrefix+"RETRY_ATTEMPTS"]; value != "" {
		attempts, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sRETRY_ATTEMPTS: %w", EnvironmentPrefix, err)
		}
		if attempts < 1 {
			return fmt.Errorf("%sRETRY_ATTEMPTS must be at least 1", EnvironmentPrefix)
		}
		c.RetryAttempts = attempts
	}

	if value := env[EnvironmentPrefix+"SESSION_TTL"]; value != "" {
		ttl, err := ParseDuration(value)
		if err != nil {
			return err
		}
		c.SessionTTL = ttl
	}

	if value := env[EnvironmentPrefix+"REDIS_ADDRESS"]; value != "" {
		c.RedisAddress = value
	}
	if value := env[EnvironmentPrefix+"REDIS_PASSWORD"]; value != "" {
		c.RedisPassword = value
	}
	if value := env[EnvironmentPrefix+"REDIS_DATABASE"]; value != "" {
		database, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sREDIS_DATABASE: %w", EnvironmentPrefix, err)
		}
		c.RedisDatabase = database
	}

	if value := env[EnvironmentPrefix+"LISTEN"]; value != "" {
		c.Listen = value
	}

	return nil
}

// ParseDuration accepts both Go durations (15s, 1h30m) and ISO8601 ones (PT15S)
func ParseDuration(value string) (time.Duration, error) {
	if strings.HasPrefix(strings.ToUpper(value), "P") {
		isoDuration, err := duration.ParseISO8601(strings.ToUpper(value))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}

		reference := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		return isoDuration.Shift(reference).Sub(reference), nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	return parsed, nil
}

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		key, value, _ := strings.Cut(variable, "=")
		environmentVariables[key] = value
	}

	return environmentVariables
}
