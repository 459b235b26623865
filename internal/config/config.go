// Package config loads image-translate settings from defaults, an optional
// YAML file, a .env file and IMAGE_TRANSLATE_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-translate/internal/imaging"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "IMAGE_TRANSLATE_"

// Config holds every tunable of a translation run.
type Config struct {
	// Languages
	SourceLang  string `yaml:"source_lang"`
	TargetLang  string `yaml:"target_lang"`
	OCRLanguage string `yaml:"ocr_language"`

	// Tesseract
	TessdataPrefix string `yaml:"tessdata_prefix"`

	// Drawing
	Threshold       float64 `yaml:"threshold"`
	FontPath        string  `yaml:"font_path"`
	FontSize        float64 `yaml:"font_size"`
	TextColor       string  `yaml:"text_color"`
	StrokeThickness int     `yaml:"stroke_thickness"`

	// Inpainting
	InpaintRadius int    `yaml:"inpaint_radius"`
	InpaintMethod string `yaml:"inpaint_method"`

	// Translation service
	TranslatorURL     string        `yaml:"translator_url"`
	TranslateTimeout  time.Duration `yaml:"translate_timeout"`
	TranslateRetries  int           `yaml:"translate_retries"`
	Concurrency       int           `yaml:"concurrency"`
	SkipLowConfidence bool          `yaml:"skip_low_confidence"`

	// Diagnostics
	DebugDir string `yaml:"debug_dir"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		SourceLang:       "ko",
		TargetLang:       "en",
		OCRLanguage:      "kor",
		Threshold:        0.25,
		FontSize:         22,
		TextColor:        "#000000",
		StrokeThickness:  2,
		InpaintRadius:    3,
		InpaintMethod:    "telea",
		TranslateTimeout: 10 * time.Second,
		TranslateRetries: 3,
		Concurrency:      4,
		LogLevel:         "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), the .env file in the working directory (skipped when missing) and
// the process environment, then validates it.
func Load(path string) (*Config, error) {
	return load(path, ".env", os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// godotenv never overrides variables that are already set.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.mergeEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.stringVar("SOURCE_LANG", &c.SourceLang)
	env.stringVar("TARGET_LANG", &c.TargetLang)
	env.stringVar("OCR_LANGUAGE", &c.OCRLanguage)
	env.stringVar("TESSDATA_PREFIX", &c.TessdataPrefix)
	env.floatVar("THRESHOLD", &c.Threshold)
	env.stringVar("FONT_PATH", &c.FontPath)
	env.floatVar("FONT_SIZE", &c.FontSize)
	env.stringVar("TEXT_COLOR", &c.TextColor)
	env.intVar("STROKE_THICKNESS", &c.StrokeThickness)
	env.intVar("INPAINT_RADIUS", &c.InpaintRadius)
	env.stringVar("INPAINT_METHOD", &c.InpaintMethod)
	env.stringVar("TRANSLATOR_URL", &c.TranslatorURL)
	env.durationVar("TRANSLATE_TIMEOUT", &c.TranslateTimeout)
	env.intVar("TRANSLATE_RETRIES", &c.TranslateRetries)
	env.intVar("CONCURRENCY", &c.Concurrency)
	env.boolVar("SKIP_LOW_CONFIDENCE", &c.SkipLowConfidence)
	env.stringVar("DEBUG_DIR", &c.DebugDir)
	env.stringVar("LOG_LEVEL", &c.LogLevel)

	return env.err
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.SourceLang == "" || c.TargetLang == "" {
		return fmt.Errorf("source and target languages are required")
	}
	if c.OCRLanguage == "" {
		return fmt.Errorf("ocr_language is required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", c.Threshold)
	}
	if c.InpaintRadius < 1 {
		return fmt.Errorf("inpaint_radius must be at least 1, got %d", c.InpaintRadius)
	}
	if c.StrokeThickness < 1 {
		return fmt.Errorf("stroke_thickness must be at least 1, got %d", c.StrokeThickness)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %v", c.FontSize)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("concurrency must be between 1 and 64, got %d", c.Concurrency)
	}
	if c.TranslateRetries < 0 {
		return fmt.Errorf("translate_retries must not be negative, got %d", c.TranslateRetries)
	}
	if c.TranslateTimeout < 0 {
		return fmt.Errorf("translate_timeout must not be negative, got %v", c.TranslateTimeout)
	}
	if _, err := imaging.ParseColor(c.TextColor); err != nil {
		return fmt.Errorf("text_color: %w", err)
	}
	return nil
}

// envReader applies IMAGE_TRANSLATE_* overrides and keeps the first parse error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, key, v, err)
	}
}

func (e *envReader) stringVar(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) intVar(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) floatVar(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) boolVar(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) durationVar(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = d
	}
}
