package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Threshold != 0.25 || cfg.InpaintRadius != 3 || cfg.SourceLang != "ko" || cfg.TargetLang != "en" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := load("", "", mapLookup(nil))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
source_lang: ja
target_lang: de
threshold: 0.5
translate_timeout: 3s
text_color: "#ff0000"
skip_low_confidence: true
`)

	cfg, err := load(path, "", mapLookup(nil))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.SourceLang != "ja" || cfg.TargetLang != "de" {
		t.Errorf("languages = %s -> %s", cfg.SourceLang, cfg.TargetLang)
	}
	if cfg.Threshold != 0.5 || cfg.TranslateTimeout != 3*time.Second || !cfg.SkipLowConfidence {
		t.Errorf("got %+v", cfg)
	}
	if cfg.InpaintRadius != 3 {
		t.Errorf("unset fields should keep defaults, InpaintRadius = %d", cfg.InpaintRadius)
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	if _, err := load(path, "", mapLookup(nil)); err != nil {
		t.Errorf("empty file should be accepted: %v", err)
	}
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeFile(t, "bad.yaml", "thresold: 0.3\n")
	if _, err := load(path, "", mapLookup(nil)); err == nil {
		t.Error("expected error for misspelt field")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.yaml"), "", mapLookup(nil)); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "concurrency: 2\nthreshold: 0.4\n")

	cfg, err := load(path, "", mapLookup(map[string]string{
		"IMAGE_TRANSLATE_CONCURRENCY":       "8",
		"IMAGE_TRANSLATE_TRANSLATE_TIMEOUT": "250ms",
		"IMAGE_TRANSLATE_LOG_LEVEL":         " debug ",
		"IMAGE_TRANSLATE_THRESHOLD":         "",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.Threshold != 0.4 {
		t.Errorf("empty env var should not override, Threshold = %v", cfg.Threshold)
	}
	if cfg.TranslateTimeout != 250*time.Millisecond || cfg.LogLevel != "debug" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		"IMAGE_TRANSLATE_CONCURRENCY":         "many",
		"IMAGE_TRANSLATE_THRESHOLD":           "high",
		"IMAGE_TRANSLATE_SKIP_LOW_CONFIDENCE": "perhaps",
		"IMAGE_TRANSLATE_TRANSLATE_TIMEOUT":   "10",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := load("", "", mapLookup(map[string]string{key: val}))
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("err = %v, want mention of %s", err, key)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "IMAGE_TRANSLATE_TARGET_LANG"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := writeFile(t, ".env", key+"=fr\n")
	cfg, err := load("", envFile, os.LookupEnv)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TargetLang != "fr" {
		t.Errorf("TargetLang = %s, want fr", cfg.TargetLang)
	}
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	if _, err := load("", filepath.Join(t.TempDir(), ".env"), mapLookup(nil)); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold below 0", func(c *Config) { c.Threshold = -0.1 }},
		{"threshold above 1", func(c *Config) { c.Threshold = 1.5 }},
		{"zero radius", func(c *Config) { c.InpaintRadius = 0 }},
		{"zero thickness", func(c *Config) { c.StrokeThickness = 0 }},
		{"zero font size", func(c *Config) { c.FontSize = 0 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"too much concurrency", func(c *Config) { c.Concurrency = 65 }},
		{"negative retries", func(c *Config) { c.TranslateRetries = -1 }},
		{"empty source", func(c *Config) { c.SourceLang = "" }},
		{"empty target", func(c *Config) { c.TargetLang = "" }},
		{"empty ocr language", func(c *Config) { c.OCRLanguage = "" }},
		{"bad colour", func(c *Config) { c.TextColor = "black" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
