package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`

	Gemini struct {
		Model             string  `yaml:"model"`
		Temperature       float32 `yaml:"temperature"`
		TopP              float32 `yaml:"topP"`
		TopK              float32 `yaml:"topK"`
		MaxOutputTokens   int32   `yaml:"maxOutputTokens"`
		SystemInstruction string  `yaml:"systemInstruction"`
		PromptFile        string  `yaml:"promptFile"`
	} `yaml:"gemini"`

	// Secrets come from the environment only, never from the yaml file.
	GeminiAPIKey string `yaml:"-"`
	APIToken     string `yaml:"-"`
}

// Load reads config.yaml when present and applies environment secrets.
// A missing file is fine, a missing GEMINI_API_KEY is fatal.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Uploads.Dir = "uploads"

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return nil, err
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.APIToken = os.Getenv("API_TOKEN")

	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	return cfg, nil
}
