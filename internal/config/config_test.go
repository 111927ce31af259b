package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CATALOG_PATH", "ENCODER_MODEL_PATH", "ENCODER_INPUT_SIZE", "OCR_LANGUAGE", "BATCH_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "catalog.json" {
		t.Errorf("CatalogPath = %q, want catalog.json", cfg.CatalogPath)
	}
	if cfg.EncoderInputSize != 224 {
		t.Errorf("EncoderInputSize = %d, want 224", cfg.EncoderInputSize)
	}
	if cfg.OCRLanguage != "eng" {
		t.Errorf("OCRLanguage = %q, want eng", cfg.OCRLanguage)
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.BatchSize)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/data/items.json")
	t.Setenv("ENCODER_MODEL_PATH", "/models/encoder.onnx")
	t.Setenv("ENCODER_INPUT_SIZE", "160")
	t.Setenv("OCR_LANGUAGE", "deu")
	t.Setenv("BATCH_SIZE", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "/data/items.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.EncoderModelPath != "/models/encoder.onnx" {
		t.Errorf("EncoderModelPath = %q", cfg.EncoderModelPath)
	}
	if cfg.EncoderInputSize != 160 {
		t.Errorf("EncoderInputSize = %d", cfg.EncoderInputSize)
	}
	if cfg.OCRLanguage != "deu" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	if cfg.BatchSize != 8 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
}

func TestLoadRejectsInvalidIntegers(t *testing.T) {
	t.Setenv("ENCODER_INPUT_SIZE", "not-a-number")
	t.Setenv("BATCH_SIZE", "-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EncoderInputSize != 224 {
		t.Errorf("EncoderInputSize = %d, want default 224", cfg.EncoderInputSize)
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want default 4", cfg.BatchSize)
	}
}
