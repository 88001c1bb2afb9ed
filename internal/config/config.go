// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Authentication modes
const (
	AuthModeInternal = "internal"
	AuthModeLdap     = "ldap"
	AuthModeHTTP     = "http"
)

// Config represents the application configuration
type Config struct {
	APIName          string `env:"UD_API_APP_NAME"`
	APIVersion       string `env:"UD_API_APP_VERSION"`
	ServerPort       string `env:"UD_API_SERVER_PORT"`
	ServerLogLevel   string `env:"UD_API_SERVER_LOG_LEVEL"`
	PostgresDsn      string `env:"UD_API_PG_DSN"`
	PostgresLogLevel string `env:"UD_API_PG_LOG_LEVEL"`
	RedisHost        string `env:"UD_API_REDIS_HOST" optional:"true"`
	RedisPort        string `env:"UD_API_REDIS_PORT" optional:"true"`
	RedisPassword    string `env:"UD_API_REDIS_PASSWORD" optional:"true"`
	AuthMode         string `env:"UD_API_AUTH_MODE"`
	HTTPAuthHeader   string `env:"UD_API_HTTP_AUTH_HEADER" optional:"true"`
	LdapHost         string `env:"UD_API_LDAP_HOST" optional:"true"`
	LdapPort         int    `env:"UD_API_LDAP_PORT" optional:"true"`
	LdapBindDN       string `env:"UD_API_LDAP_BIND_DN" optional:"true"`
	LoginAttempts    int    `env:"UD_API_LOGIN_ATTEMPTS" optional:"true"`
	LoginBlockSecs   int    `env:"UD_API_LOGIN_BLOCK_SECS" optional:"true"`
	DefaultTheme     string `env:"UD_API_DEFAULT_THEME" optional:"true"`
	SessionSweepCron string `env:"UD_API_SESSION_SWEEP_CRON" optional:"true"`
}

var (
	SingleLine string = "--------------------------------------------------"
)

var (
	instance *Config
	once     sync.Once
	err      error
)

// Get returns the application configuration
func Get() (*Config, error) {
	once.Do(func() {
		instance, err = loadConfig()
	})
	return instance, err
}

// loadConfig loads configuration from environment variables and applies
// defaults for the optional knobs
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	switch cfg.AuthMode {
	case AuthModeInternal, AuthModeLdap, AuthModeHTTP:
	default:
		return nil, fmt.Errorf("invalid UD_API_AUTH_MODE %q, must be internal, ldap or http", cfg.AuthMode)
	}

	if cfg.AuthMode == AuthModeLdap && cfg.LdapHost == "" {
		return nil, fmt.Errorf("UD_API_LDAP_HOST is required when auth mode is ldap")
	}

	if cfg.HTTPAuthHeader == "" {
		cfg.HTTPAuthHeader = "X-Remote-User"
	}
	if cfg.LdapPort == 0 {
		cfg.LdapPort = 389
	}
	if cfg.LoginAttempts == 0 {
		cfg.LoginAttempts = 5
	}
	if cfg.LoginBlockSecs == 0 {
		cfg.LoginBlockSecs = 30
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "blue-theme"
	}
	if cfg.SessionSweepCron == "" {
		cfg.SessionSweepCron = "*/10 * * * *"
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := os.Getenv(envTag)
		if value == "" {
			if field.Tag.Get("optional") == "true" {
				continue
			}
			return fmt.Errorf("env variable %s is required but not set", envTag)
		}

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("env variable %s must be an integer, got %q", envTag, value)
			}
			v.Field(i).SetInt(int64(n))
		default:
			return fmt.Errorf("unsupported config field type for %s", field.Name)
		}
	}

	return nil
}

// String returns the configuration as a string
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n--------------------------------------\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString("--------------------------------------\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		var value string
		switch field.Type.Kind() {
		case reflect.Int:
			value = strconv.FormatInt(v.Field(i).Int(), 10)
		default:
			value = v.Field(i).String()
		}

		// Mask sensitive fields
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString("--------------------------------------\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	sensitiveFields := []string{"token", "dsn", "secret", "password", "url"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
