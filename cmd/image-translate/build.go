package main

import (
	"fmt"

	"github.com/ironsheep/image-translate/internal/config"
	"github.com/ironsheep/image-translate/internal/imaging"
	"github.com/ironsheep/image-translate/internal/inpaint"
	"github.com/ironsheep/image-translate/internal/logging"
	"github.com/ironsheep/image-translate/internal/ocr"
	"github.com/ironsheep/image-translate/internal/overlay"
	"github.com/ironsheep/image-translate/internal/pipeline"
	"github.com/ironsheep/image-translate/internal/translate"
)

// buildPipeline wires the Tesseract detector, the Google translator, the
// configured inpainter and the overlay composer into a pipeline.
func buildPipeline(cfg *config.Config, log *logging.Logger) (*pipeline.Pipeline, error) {
	in, err := inpaint.New(cfg.InpaintMethod, cfg.InpaintRadius)
	if err != nil {
		return nil, err
	}

	textColor, err := imaging.ParseColor(cfg.TextColor)
	if err != nil {
		return nil, err
	}
	threshold := cfg.Threshold
	composer, err := overlay.NewComposer(overlay.Options{
		FontPath:  cfg.FontPath,
		FontSize:  cfg.FontSize,
		Color:     textColor,
		Thickness: cfg.StrokeThickness,
		Threshold: &threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	detector := &ocr.Tesseract{
		Language:       cfg.OCRLanguage,
		TessdataPrefix: cfg.TessdataPrefix,
	}

	var tr translate.Translator = translate.NewGoogle(cfg.TranslatorURL)
	if cfg.TranslateRetries > 0 {
		tr = &translate.Retrying{Next: tr, MaxRetries: cfg.TranslateRetries}
	}

	p := &pipeline.Pipeline{
		Detector:          detector,
		Translator:        tr,
		Inpainter:         in,
		Composer:          composer,
		Logger:            log.With("component", "pipeline"),
		SourceLang:        cfg.SourceLang,
		TargetLang:        cfg.TargetLang,
		Concurrency:       cfg.Concurrency,
		Timeout:           cfg.TranslateTimeout,
		SkipLowConfidence: cfg.SkipLowConfidence,
	}
	if cfg.DebugDir != "" {
		p.Observer = pipeline.DirObserver{Dir: cfg.DebugDir}
		log.Info("Writing debug images", "dir", cfg.DebugDir)
	}

	log.Debug("Pipeline ready",
		"ocr_language", cfg.OCRLanguage,
		"inpaint", cfg.InpaintMethod,
		"radius", cfg.InpaintRadius,
		"threshold", composer.Threshold,
		"color", imaging.HexColor(textColor),
		"concurrency", cfg.Concurrency)
	return p, nil
}
