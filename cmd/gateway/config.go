// In file: cmd/gateway/config.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dlm-assistant/landscape-gateway/internal/backend"
)

// AppConfig holds all configuration for the gateway, loaded from the
// environment and config.yaml. Endpoints and timeouts live in the yaml file;
// secrets (API keys, backend credentials) come from the environment only.
type AppConfig struct {
	Model          string
	OpenAIAPIURL   string
	OpenAIKey      string
	GeminiKey      string
	RedisAddr      string
	Landscape      backend.LandscapeConfig
	RequestService backend.RequestServiceConfig
}

// yamlConfig mirrors config.yaml. Timeouts are plain seconds so the file
// stays readable.
type yamlConfig struct {
	Model        string `yaml:"model"`
	OpenAIAPIURL string `yaml:"openai_api_url"`
	Landscape    struct {
		BaseURL            string `yaml:"base_url"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"landscape"`
	RequestService struct {
		Endpoint           string `yaml:"endpoint"`
		SAPClient          string `yaml:"sap_client"`
		Generic            bool   `yaml:"generic"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"request_service"`
}

// LoadConfig loads all configuration from a .env file, environment variables
// and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// Only attempt to load a .env file in local development. In containers
	// (GIN_MODE="release") configuration is provided directly as environment
	// variables.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	raw, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}

	if yc.Model == "" {
		return nil, fmt.Errorf("config.yaml must set a model")
	}
	if yc.Landscape.BaseURL == "" {
		return nil, fmt.Errorf("config.yaml must set landscape.base_url")
	}
	if yc.RequestService.Endpoint == "" {
		return nil, fmt.Errorf("config.yaml must set request_service.endpoint")
	}

	cfg := &AppConfig{
		Model:        yc.Model,
		OpenAIAPIURL: yc.OpenAIAPIURL,
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		Landscape: backend.LandscapeConfig{
			BaseURL:            yc.Landscape.BaseURL,
			Timeout:            time.Duration(yc.Landscape.TimeoutSeconds) * time.Second,
			InsecureSkipVerify: yc.Landscape.InsecureSkipVerify,
		},
		RequestService: backend.RequestServiceConfig{
			Endpoint:           yc.RequestService.Endpoint,
			SAPClient:          yc.RequestService.SAPClient,
			Generic:            yc.RequestService.Generic,
			Timeout:            time.Duration(yc.RequestService.TimeoutSeconds) * time.Second,
			InsecureSkipVerify: yc.RequestService.InsecureSkipVerify,
			Username:           os.Getenv("REQUEST_SERVICE_USER"),
			Password:           os.Getenv("REQUEST_SERVICE_PASSWORD"),
		},
	}

	return cfg, nil
}
