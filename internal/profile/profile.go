package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where lumi stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Frontend is the directory of static frontend assets; empty disables serving
	Frontend string
	// Version is the current version of server
	Version string

	// AI Configuration
	AIAPIKey         string // LUMI_AI_API_KEY
	AIBaseURL        string // LUMI_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel      string // LUMI_AI_CHAT_MODEL (default: gpt-4o-mini)
	AIEmbeddingModel string // LUMI_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an API key is configured for the language model collaborator.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads AI configuration from LUMI_* environment variables.
func (p *Profile) FromEnv() {
	if p.AIAPIKey == "" {
		p.AIAPIKey = os.Getenv("LUMI_AI_API_KEY")
	}
	if p.AIBaseURL == "" {
		p.AIBaseURL = getEnvOrDefault("LUMI_AI_BASE_URL", "https://api.openai.com/v1")
	}
	if p.AIChatModel == "" {
		p.AIChatModel = getEnvOrDefault("LUMI_AI_CHAT_MODEL", "gpt-4o-mini")
	}
	if p.AIEmbeddingModel == "" {
		p.AIEmbeddingModel = getEnvOrDefault("LUMI_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver: %s", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("lumi_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
