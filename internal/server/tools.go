package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func areaProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Restrict processing to this rectangle of the image. Omit for the whole image.",
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y":      map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"width":  map[string]interface{}{"type": "integer", "description": "Width in pixels"},
			"height": map[string]interface{}{"type": "integer", "description": "Height in pixels"},
		},
		"required": []string{"x", "y", "width", "height"},
	}
}

func detectionsProperty() map[string]interface{} {
	point := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
		},
	}
	return map[string]interface{}{
		"type":        "array",
		"description": "Text detections in image coordinates, as returned by image_detect_text. Omit to run the configured OCR engine.",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"quad": map[string]interface{}{
					"type":        "array",
					"description": "Four corners clockwise from top-left",
					"items":       point,
					"minItems":    4,
					"maxItems":    4,
				},
				"text":       map[string]interface{}{"type": "string"},
				"confidence": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []string{"quad", "text", "confidence"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Text Operations
		{
			Name:        "image_detect_text",
			Description: "Run OCR on an image and return every text detection with its bounding quad and confidence. Coordinates are in the full image even when an area is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"area": areaProperty(),
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a base64 PNG with the detections outlined",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_erase_text",
			Description: "Erase text from an image by inpainting the detection rectangles. Returns the cleaned image as base64 PNG, or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"detections": detectionsProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Write the cleaned image here as PNG instead of returning it",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_translate",
			Description: "Translate the text in an image: detect it, erase it, and draw the translation in its place. The result is written to output_path as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the translated PNG",
					},
					"area":       areaProperty(),
					"detections": detectionsProperty(),
					"source_lang": map[string]interface{}{
						"type":        "string",
						"description": "Source language code (e.g. \"ko\"). Defaults to the server configuration.",
					},
					"target_lang": map[string]interface{}{
						"type":        "string",
						"description": "Target language code (e.g. \"en\"). Defaults to the server configuration.",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "image_ocr_info",
			Description: "Report whether the OCR engine is available, its version, and the languages it is configured for.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
