package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/image-translate/internal/config"
	"github.com/ironsheep/image-translate/internal/detection"
	"github.com/ironsheep/image-translate/internal/imaging"
	"github.com/ironsheep/image-translate/internal/logging"
	"github.com/ironsheep/image-translate/internal/ocr"
	"github.com/ironsheep/image-translate/internal/pipeline"
	"github.com/ironsheep/image-translate/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("image-translate %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		fmt.Printf("  Tesseract:  %s\n", ocr.TesseractVersion())
		return
	case "--help", "-h", "help":
		usage()
		return
	case "translate":
		os.Exit(runTranslate(args))
	case "serve":
		os.Exit(runServe(args))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("image-translate - replace the text in an image with its translation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-translate translate -in input.png -out translated.png [options]")
	fmt.Println("  image-translate serve [-config file]")
	fmt.Println()
	fmt.Println("Translate options:")
	fmt.Println("  -config file         YAML configuration file")
	fmt.Println("  -in file             Input image (png, jpeg, gif, bmp, tiff, webp)")
	fmt.Println("  -out file            Output PNG")
	fmt.Println("  -area x,y,w,h        Only process this rectangle of the input")
	fmt.Println("  -detections file     Use detections from an EasyOCR JSON dump instead of Tesseract")
	fmt.Println("  -source, -target     Override the configured languages")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (override the config file, also read from .env):")
	fmt.Println("  IMAGE_TRANSLATE_SOURCE_LANG, IMAGE_TRANSLATE_TARGET_LANG, IMAGE_TRANSLATE_OCR_LANGUAGE")
	fmt.Println("  IMAGE_TRANSLATE_THRESHOLD, IMAGE_TRANSLATE_FONT_PATH, IMAGE_TRANSLATE_FONT_SIZE")
	fmt.Println("  IMAGE_TRANSLATE_INPAINT_METHOD, IMAGE_TRANSLATE_DEBUG_DIR")
	fmt.Println("  IMAGE_TRANSLATE_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("serve speaks MCP over stdin/stdout; configure it in your MCP client.")
}

// setup loads configuration and builds the logger and pipeline shared by
// both commands. Logs go to stderr; stdout is reserved for MCP.
func setup(configPath string) (*logging.Logger, *pipeline.Pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logging.New("image-translate", logging.ParseLevel(cfg.LogLevel), os.Stderr)
	log.Debug("Starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	p, err := buildPipeline(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return log, p, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, p, err := setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-translate: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	server.Version = Version
	srv := server.New(p, log.With("component", "server"))
	log.Info("Serving MCP on stdio", "source", p.SourceLang, "target", p.TargetLang)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Server error", "error", err)
		return 1
	}
	return 0
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "input image")
	out := fs.String("out", "", "output PNG")
	area := fs.String("area", "", "x,y,w,h rectangle to process")
	detsPath := fs.String("detections", "", "EasyOCR JSON detections file")
	source := fs.String("source", "", "source language (overrides config)")
	target := fs.String("target", "", "target language (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "image-translate translate: -in and -out are required")
		fs.Usage()
		return 2
	}

	sel, err := imaging.ParseSelection(*area)
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-translate translate: %v\n", err)
		return 2
	}

	log, p, err := setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-translate: %v\n", err)
		return 1
	}
	if *source != "" {
		p.SourceLang = *source
	}
	if *target != "" {
		p.TargetLang = *target
	}

	var dets []detection.Detection
	if *detsPath != "" {
		dets, err = readDetections(*detsPath)
		if err != nil {
			log.Error("Failed to read detections", "path", *detsPath, "error", err)
			return 1
		}
		log.Info("Loaded detections", "path", *detsPath, "count", len(dets))
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := p.RunFileDetections(ctx, *in, *out, sel, dets)
	if err != nil {
		log.Error("Translation failed", "code", pipeline.CodeOf(err), "error", err)
		return 1
	}

	fmt.Printf("%s: %d detections, %d drawn, %d translation failures -> %s\n",
		*in, len(res.Detections), res.Drawn(p.Composer), len(res.Failures), *out)
	return 0
}

func readDetections(path string) ([]detection.Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return detection.ParseEasyOCR(f)
}
