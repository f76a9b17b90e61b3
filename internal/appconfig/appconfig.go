package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

const (
	NonAuthorEditRedirect  = "redirect"
	NonAuthorEditForbidden = "forbidden"
)

// Config holds all configuration details
type Config struct {
	Host     string         `yaml:"host"`
	BasePath string         `yaml:"basePath"`
	DocsPath string         `yaml:"docsPath"`
	Database DatabaseConfig `yaml:"database"`
	Posts    PostsConfig    `yaml:"posts"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Pulsar   PulsarConfig   `yaml:"pulsar"`
	AWS      AWSConfig      `yaml:"aws"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// PostsConfig controls listing and edit behaviour
type PostsConfig struct {
	PageSize      int    `yaml:"pageSize"`
	NonAuthorEdit string `yaml:"nonAuthorEdit"`
}

// AuthConfig defines where unauthenticated users are sent and how bearer
// tokens are verified. An empty signing secret disables signature checks.
type AuthConfig struct {
	LoginURL          string `yaml:"loginURL"`
	SigningSecret     string `yaml:"signingSecret"`
	SigningSecretName string `yaml:"signingSecretName"`
}

// RedisConfig defines the post count cache. An empty address disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	// Create a map of environment variables
	envVars := loadEnvVars()

	// Execute the template with environment variables
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, envVars)
	if err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	// Load and unmarshal the YAML
	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) setDefaults() {
	if c.DocsPath == "" {
		c.DocsPath = "/docs"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Posts.PageSize <= 0 {
		c.Posts.PageSize = 10
	}
	if c.Posts.NonAuthorEdit == "" {
		c.Posts.NonAuthorEdit = NonAuthorEditRedirect
	}
	if c.Auth.LoginURL == "" {
		c.Auth.LoginURL = "/auth/login/"
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 5 * time.Minute
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Posts.NonAuthorEdit {
	case NonAuthorEditRedirect, NonAuthorEditForbidden:
	default:
		return fmt.Errorf("posts.nonAuthorEdit must be %q or %q, got %q",
			NonAuthorEditRedirect, NonAuthorEditForbidden, c.Posts.NonAuthorEdit)
	}
	return nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
