package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// Load reads the YAML config at the given path, then lets environment
// variables override individual values so deployments never need to
// edit the file.
func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	loadEnvOverrides(conf)

	return conf, nil
}

func loadEnvOverrides(conf *AppConfig) {
	overrideString(&conf.API.Environment, "API_ENVIRONMENT")
	overrideString(&conf.API.Port, "API_PORT")
	overrideString(&conf.API.JWTSigningKey, "API_JWT_SIGNING_KEY")
	// Comma-separated in the environment.
	if v, ok := os.LookupEnv("API_ALLOWED_CORS_DOMAINS"); ok {
		conf.API.AllowedCORSDomains = strings.Split(v, ",")
	}

	overrideString(&conf.Gin.Mode, "GIN_MODE")

	overrideString(&conf.Postgres.Host, "POSTGRES_HOST")
	overrideString(&conf.Postgres.Port, "POSTGRES_PORT")
	overrideString(&conf.Postgres.User, "POSTGRES_USER")
	overrideString(&conf.Postgres.Password, "POSTGRES_PASSWORD")
	overrideString(&conf.Postgres.DB, "POSTGRES_DB")
}

func overrideString(target *string, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		*target = v
	}
}
