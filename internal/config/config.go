package config

import (
	"log"
	"os"
	"strings"
)

const (
	defaultAppEnv       = "dev"
	defaultDBPath       = "./amelie.db"
	defaultPort         = "8080"
	defaultTemplatesDir = "web/templates"
	defaultStaticDir    = "web/static"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string
	DBPath        string
	Port          string
	ScenariosFile string
	CORSOrigins   []string
	TemplatesDir  string
	StaticDir     string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: local dev values. Production injects real env vars.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: ignoring .env: %v", err)
	}

	cfg := Config{
		AppEnv:        os.Getenv("APP_ENV"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		ScenariosFile: os.Getenv("SCENARIOS_FILE"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
		TemplatesDir:  os.Getenv("TEMPLATES_DIR"),
		StaticDir:     os.Getenv("STATIC_DIR"),
	}

	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = defaultTemplatesDir
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = defaultStaticDir
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	if !cfg.IsDev() && containsWildcard(cfg.CORSOrigins) {
		log.Print("warning: CORS_ORIGINS allows any origin outside dev")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "dev" || c.AppEnv == "development"
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
