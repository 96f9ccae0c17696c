// Package config holds the exporter settings gathered from defaults, a YAML file, the environment and the command line.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ModeNeo4j is the only supported export mode
	ModeNeo4j = "neo4j"
	// DefaultURL is the local Neo4j HTTP endpoint
	DefaultURL = "http://localhost:7474"
	// DefaultConcurrency bounds in-flight store calls per phase
	DefaultConcurrency = 10
	// DefaultLogName is the name of the audit log artifact
	DefaultLogName = "neo4j-query-log.txt"
)

// Environment variables read by FromEnv
const (
	EnvURL         = "PROTOGRAPH_URL"
	EnvUsername    = "PROTOGRAPH_USERNAME"
	EnvPassword    = "PROTOGRAPH_PASSWORD"
	EnvDatabase    = "PROTOGRAPH_DATABASE"
	EnvConcurrency = "PROTOGRAPH_CONCURRENCY"
	EnvDryRun      = "PROTOGRAPH_DRY_RUN"
)

// Config represents exporter settings
type Config struct {
	Mode        string `yaml:"mode" validate:"oneof=neo4j"`
	URL         string `yaml:"url" validate:"required,url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	Concurrency int    `yaml:"concurrency" validate:"min=1,max=256"`
	LogName     string `yaml:"logName" validate:"required"`
	DryRun      bool   `yaml:"dryRun"`
}

// Default returns the settings used when nothing else is configured
func Default() *Config {
	return &Config{
		Mode:        ModeNeo4j,
		URL:         DefaultURL,
		Concurrency: DefaultConcurrency,
		LogName:     DefaultLogName,
	}
}

// Load merges the YAML file at path into c
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// FromEnv loads an optional .env file and applies PROTOGRAPH_* variables
func (c *Config) FromEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if v, ok := os.LookupEnv(EnvURL); ok {
		c.URL = v
	}
	if v, ok := os.LookupEnv(EnvUsername); ok {
		c.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Password = v
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok {
		c.Database = v
	}
	if v, ok := os.LookupEnv(EnvConcurrency); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvConcurrency, v, err)
		}
		c.Concurrency = n
	}
	if v, ok := os.LookupEnv(EnvDryRun); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDryRun, v, err)
		}
		c.DryRun = b
	}
	return nil
}

// ApplyArgs applies positional arguments: neo4j [url [username [password]]]
func (c *Config) ApplyArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if args[0] != ModeNeo4j {
		return fmt.Errorf("unsupported mode: %s", args[0])
	}
	if len(args) > 4 {
		return fmt.Errorf("too many arguments: expected %s [url [username [password]]], got %d", ModeNeo4j, len(args))
	}
	c.Mode = args[0]
	if len(args) > 1 {
		c.URL = args[1]
	}
	if len(args) > 2 {
		c.Username = args[2]
	}
	if len(args) > 3 {
		c.Password = args[3]
	}
	return nil
}

// ApplyParameter applies a protoc plugin parameter of the form key=value,key=value
func (c *Config) ApplyParameter(parameter string) error {
	for _, pair := range strings.Split(parameter, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		switch strings.TrimSpace(key) {
		case "mode":
			c.Mode = value
		case "url":
			c.URL = value
		case "username":
			c.Username = value
		case "password":
			c.Password = value
		case "database":
			c.Database = value
		case "logName":
			c.LogName = value
		case "concurrency":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid concurrency %q: %w", value, err)
			}
			c.Concurrency = n
		case "dryRun":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid dryRun %q: %w", value, err)
			}
			c.DryRun = b
		default:
			return fmt.Errorf("unknown parameter: %s", key)
		}
	}
	return nil
}

// Validate checks the settings
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
