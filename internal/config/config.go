// Package config loads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the scanner.
type Config struct {
	CatalogPath      string // Path to the catalog embeddings artifact
	EncoderModelPath string // Path to the ONNX embedding model
	EncoderInputSize int    // Square input edge expected by the model
	OCRLanguage      string // Tesseract language code
	BatchSize        int    // Slow-path encoder batch size
}

// Load reads configuration from a .env file (current directory or beside
// the executable) and the process environment. Environment always wins.
func Load() (*Config, error) {
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		CatalogPath:      getEnvWithDefault("CATALOG_PATH", "catalog.json"),
		EncoderModelPath: os.Getenv("ENCODER_MODEL_PATH"),
		EncoderInputSize: getEnvInt("ENCODER_INPUT_SIZE", 224),
		OCRLanguage:      getEnvWithDefault("OCR_LANGUAGE", "eng"),
		BatchSize:        getEnvInt("BATCH_SIZE", 4),
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
