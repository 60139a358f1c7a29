// Package config loads application configuration from the environment into an
// explicit Config struct that gets passed into constructors.
package config

import (
	"github.com/spf13/viper"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
)

// Config holds every recognized setting of the backend.
type Config struct {
	Port int

	// LLM provider: "openai", "deepseek", or "mistral"
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	DeepseekBaseURL string
	DeepseekAPIKey  string
	MistralBaseURL  string
	MistralAPIKey   string

	UploadDirJD     string
	UploadDirResume string

	// Resume processing pipeline
	ResumeProcessBatchSize       int
	ResumeProcessIntervalSeconds int
	// Reserved for future concurrent execution; the current design is sequential.
	ResumeProcessMaxParallel int

	RateLimitRequestsPerSecond int
}

// Load reads configuration from environment variables applying defaults
// for everything that is safe to default.
func Load() *Config {
	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("UPLOAD_DIR_JD", "uploads/jd")
	v.SetDefault("UPLOAD_DIR_RESUME", "uploads/resumes")
	v.SetDefault("RESUME_PROCESS_BATCH_SIZE", 10)
	v.SetDefault("RESUME_PROCESS_INTERVAL_SECONDS", 60)
	v.SetDefault("RESUME_PROCESS_MAX_PARALLEL", 1)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 5)
	v.AutomaticEnv()

	return &Config{
		Port:                         v.GetInt("PORT"),
		LLMProvider:                  v.GetString("LLM_PROVIDER"),
		LLMModel:                     v.GetString("LLM_MODEL"),
		OpenAIAPIKey:                 v.GetString("OPENAI_API_KEY"),
		DeepseekBaseURL:              v.GetString("DEEPSEEK_BASE_URL"),
		DeepseekAPIKey:               v.GetString("DEEPSEEK_API_KEY"),
		MistralBaseURL:               v.GetString("MISTRAL_BASE_URL"),
		MistralAPIKey:                v.GetString("MISTRAL_API_KEY"),
		UploadDirJD:                  v.GetString("UPLOAD_DIR_JD"),
		UploadDirResume:              v.GetString("UPLOAD_DIR_RESUME"),
		ResumeProcessBatchSize:       v.GetInt("RESUME_PROCESS_BATCH_SIZE"),
		ResumeProcessIntervalSeconds: v.GetInt("RESUME_PROCESS_INTERVAL_SECONDS"),
		ResumeProcessMaxParallel:     v.GetInt("RESUME_PROCESS_MAX_PARALLEL"),
		RateLimitRequestsPerSecond:   v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND"),
	}
}
