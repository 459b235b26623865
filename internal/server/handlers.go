package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/image-translate/internal/detection"
	"github.com/ironsheep/image-translate/internal/imaging"
	"github.com/ironsheep/image-translate/internal/ocr"
	"github.com/ironsheep/image-translate/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_translate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Pipeline errors carry their code and details in the error data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("Tool failed", "tool", params.Name, "error", err)
		if pe, ok := err.(*pipeline.Error); ok {
			return s.errorResponse(req.ID, -32000, "Tool execution failed", pe.ToMap())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Text Operations
	case "image_detect_text":
		return s.handleImageDetectText(ctx, args)
	case "image_erase_text":
		return s.handleImageEraseText(ctx, args)
	case "image_translate":
		return s.handleImageTranslate(ctx, args)
	case "image_ocr_info":
		return s.handleImageOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Text Operation Handlers ===

type areaArg struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (a *areaArg) selection() *imaging.Selection {
	if a == nil {
		return nil
	}
	return imaging.NewSelection(a.X, a.Y, a.Width, a.Height)
}

// previewColor outlines detections in image_detect_text previews.
var previewColor = color.NRGBA{R: 0, G: 200, B: 0, A: 255}

type imageDetectTextArgs struct {
	Path    string   `json:"path"`
	Area    *areaArg `json:"area"`
	Preview bool     `json:"preview"`
}

type detectTextResult struct {
	Count      int                   `json:"count"`
	Detections []detection.Detection `json:"detections"`
	Preview    *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleImageDetectText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageDetectTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, pipeline.NewIOFailedError("", "read", a.Path, err)
	}

	dets, err := s.detect(ctx, img, a.Area.selection())
	if err != nil {
		return nil, err
	}

	result := &detectTextResult{
		Count:      len(dets),
		Detections: dets,
	}
	if a.Preview {
		preview, err := imaging.EncodePNGBase64(detection.Annotate(img, dets, previewColor))
		if err != nil {
			return nil, err
		}
		result.Preview = preview
	}
	return result, nil
}

// detect runs the configured detector on sel of img and returns detections in
// img's coordinates.
func (s *Server) detect(ctx context.Context, img image.Image, sel *imaging.Selection) ([]detection.Detection, error) {
	if s.pipeline.Detector == nil {
		return nil, pipeline.NewDetectionFailedError("", fmt.Errorf("no detector configured"))
	}

	src := img
	origin := image.Point{}
	if _, ok := sel.Rect(); ok {
		cropped, from, err := imaging.CropSelection(img, sel)
		if err != nil {
			return nil, err
		}
		src = cropped
		origin = from.Min
	}

	dets, err := s.pipeline.Detector.Detect(ctx, src)
	if err != nil {
		return nil, pipeline.NewDetectionFailedError("", err)
	}
	if dets == nil {
		dets = []detection.Detection{}
	}
	return offsetDetections(dets, origin), nil
}

func offsetDetections(dets []detection.Detection, by image.Point) []detection.Detection {
	if by == (image.Point{}) {
		return dets
	}
	for i := range dets {
		for j := range dets[i].Quad {
			dets[i].Quad[j].X += by.X
			dets[i].Quad[j].Y += by.Y
		}
	}
	return dets
}

type imageEraseTextArgs struct {
	Path       string                `json:"path"`
	Detections []detection.Detection `json:"detections"`
	OutputPath string                `json:"output_path"`
}

type eraseTextResult struct {
	Detections int                   `json:"detections"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleImageEraseText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageEraseTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, pipeline.NewIOFailedError("", "read", a.Path, err)
	}

	dets := a.Detections
	if dets == nil {
		dets, err = s.detect(ctx, img, nil)
		if err != nil {
			return nil, err
		}
	}

	cleaned, err := pipeline.Erase(s.pipeline.Inpainter, img, dets)
	if err != nil {
		return nil, err
	}
	s.log.Info("Erased text", "path", a.Path, "detections", len(dets))

	result := &eraseTextResult{Detections: len(dets)}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(a.OutputPath, cleaned); err != nil {
			return nil, pipeline.NewIOFailedError("", "write", a.OutputPath, err)
		}
		s.cache.Evict(a.OutputPath)
		result.OutputPath = a.OutputPath
		return result, nil
	}

	encoded, err := imaging.EncodePNGBase64(cleaned)
	if err != nil {
		return nil, err
	}
	result.Image = encoded
	return result, nil
}

type imageTranslateArgs struct {
	Path       string                `json:"path"`
	OutputPath string                `json:"output_path"`
	Area       *areaArg              `json:"area"`
	Detections []detection.Detection `json:"detections"`
	SourceLang string                `json:"source_lang"`
	TargetLang string                `json:"target_lang"`
}

type translationEntry struct {
	Text       string          `json:"text"`
	Translated string          `json:"translated,omitempty"`
	Confidence float64         `json:"confidence"`
	Anchor     detection.Point `json:"anchor"`
	Drawn      bool            `json:"drawn"`
}

type translateResult struct {
	RunID        string                   `json:"run_id"`
	OutputPath   string                   `json:"output_path"`
	Width        int                      `json:"width"`
	Height       int                      `json:"height"`
	Detections   int                      `json:"detections"`
	Drawn        int                      `json:"drawn"`
	Translations []translationEntry       `json:"translations"`
	Failures     []map[string]interface{} `json:"failures,omitempty"`
}

func (s *Server) handleImageTranslate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageTranslateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.OutputPath == "" {
		return nil, fmt.Errorf("path and output_path are required")
	}

	p := *s.pipeline
	if a.SourceLang != "" {
		p.SourceLang = a.SourceLang
	}
	if a.TargetLang != "" {
		p.TargetLang = a.TargetLang
	}

	res, err := p.RunFileDetections(ctx, a.Path, a.OutputPath, a.Area.selection(), a.Detections)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(a.OutputPath)

	return summarize(&p, a.OutputPath, res), nil
}

func summarize(p *pipeline.Pipeline, out string, res *pipeline.Result) *translateResult {
	b := res.Final.Bounds()
	result := &translateResult{
		RunID:        res.RunID,
		OutputPath:   out,
		Width:        b.Dx(),
		Height:       b.Dy(),
		Detections:   len(res.Detections),
		Drawn:        res.Drawn(p.Composer),
		Translations: make([]translationEntry, 0, len(res.Translations)),
	}
	for _, it := range res.Translations {
		result.Translations = append(result.Translations, translationEntry{
			Text:       it.Detection.Text,
			Translated: it.Translated,
			Confidence: it.Detection.Confidence,
			Anchor:     it.Detection.Quad.Anchor(),
			Drawn:      p.Composer.Drawn(it),
		})
	}
	for _, f := range res.Failures {
		result.Failures = append(result.Failures, f.ToMap())
	}
	return result
}

// ocrInfoer is implemented by detectors that can report on their engine.
type ocrInfoer interface {
	Info() ocr.OCRInfo
}

func (s *Server) handleImageOCRInfo() (interface{}, error) {
	if i, ok := s.pipeline.Detector.(ocrInfoer); ok {
		return i.Info(), nil
	}
	return ocr.OCRInfo{
		Available: s.pipeline.Detector != nil,
		Backend:   "external",
	}, nil
}
