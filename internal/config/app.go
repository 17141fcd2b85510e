package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	BaseURL     string
	UploadDir   string
	MaxUploadMB int
	LogJSON     bool
	LogDebug    bool
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:        getEnv("APP_NAME", "resume-matcher"),
			Env:         env,
			Port:        getEnv("APP_PORT", ":5001"),
			BaseURL:     os.Getenv("APP_URL"),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 20),
			LogJSON:     getEnvBool("LOG_JSON", env == "production"),
			LogDebug:    getEnvBool("LOG_DEBUG", false),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
