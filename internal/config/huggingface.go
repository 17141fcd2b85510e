package config

import (
	"os"
	"sync"
)

const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2"

type HuggingFaceConfig struct {
	APIKey string
	URL    string
}

var (
	huggingFaceConfig *HuggingFaceConfig
	huggingFaceOnce   sync.Once
)

// LoadHuggingFaceConfig reads the inference credential once per process.
// An empty APIKey is allowed; every remote score then fails.
func LoadHuggingFaceConfig() *HuggingFaceConfig {
	huggingFaceOnce.Do(func() {
		huggingFaceConfig = &HuggingFaceConfig{
			APIKey: os.Getenv("HUGGINGFACE_API_KEY"),
			URL:    getEnv("HUGGINGFACE_API_URL", DefaultHuggingFaceURL),
		}
	})
	return huggingFaceConfig
}
