package config

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"distsim/domain/core"
	"distsim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Model    ModelConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	Feedback FeedbackConfig
	LogLevel string
}

// ModelConfig locates the trained classifier
type ModelConfig struct {
	Dir     string
	Version string
}

// AnalysisConfig holds sampling and classification settings
type AnalysisConfig struct {
	SampleSize         int
	Workers            int
	Seed               int64
	DefaultSensitivity float64
}

// OutputConfig holds result file paths
type OutputConfig struct {
	ResultsPath string
}

// FeedbackConfig holds the retraining policy
type FeedbackConfig struct {
	MinFeedbackForRetrain int
	ErrorRateThreshold    float64
	Window                time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Model:    loadModelConfig(),
		Analysis: loadAnalysisConfig(),
		Output:   loadOutputConfig(),
		Feedback: loadFeedbackConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadModelConfig() ModelConfig {
	return ModelConfig{
		Dir:     getEnvOrDefault("MODEL_DIR", "models"),
		Version: getEnvOrDefault("MODEL_VERSION", "distribution_similarity_model"),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SampleSize:         getEnvIntOrDefault("SAMPLE_SIZE", 201),
		Workers:            getEnvIntOrDefault("ANALYSIS_WORKERS", runtime.NumCPU()),
		Seed:               int64(getEnvIntOrDefault("SAMPLING_SEED", 42)),
		DefaultSensitivity: getEnvFloatOrDefault("DEFAULT_SENSITIVITY", 0.5),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		ResultsPath: getEnvOrDefault("RESULTS_PATH", "test_results_analysis.xlsx"),
	}
}

func loadFeedbackConfig() FeedbackConfig {
	return FeedbackConfig{
		MinFeedbackForRetrain: getEnvIntOrDefault("MIN_FEEDBACK_FOR_RETRAIN", 100),
		ErrorRateThreshold:    getEnvFloatOrDefault("ERROR_RATE_THRESHOLD", 0.2),
		Window:                getEnvDurationOrDefault("FEEDBACK_WINDOW", 7*24*time.Hour),
	}
}

func validateConfig(config *Config) error {
	if config.Model.Dir == "" {
		return errors.ConfigInvalid("MODEL_DIR must not be empty")
	}
	if config.Analysis.SampleSize <= 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be positive")
	}
	if config.Analysis.Workers <= 0 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be positive")
	}
	if err := ValidateSensitivity(config.Analysis.DefaultSensitivity); err != nil {
		return errors.Wrap(err, "DEFAULT_SENSITIVITY")
	}
	if config.Feedback.MinFeedbackForRetrain <= 0 {
		return errors.ConfigInvalid("MIN_FEEDBACK_FOR_RETRAIN must be positive")
	}
	if r := config.Feedback.ErrorRateThreshold; r < 0 || r > 1 {
		return errors.ConfigInvalid("ERROR_RATE_THRESHOLD must be in [0, 1]")
	}
	if config.Feedback.Window <= 0 {
		return errors.ConfigInvalid("FEEDBACK_WINDOW must be positive")
	}
	return nil
}

// ValidateSensitivity rejects values outside [0, 1]. Analysis itself clips;
// this guards user-facing settings.
func ValidateSensitivity(s float64) error {
	if math.IsNaN(s) || s < 0 || s > 1 {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: strconv.FormatFloat(s, 'g', -1, 64), Cause: core.ErrInvalidSensitivity}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
