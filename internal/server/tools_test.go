package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_detect_text",
		"image_erase_text",
		"image_translate",
		"image_ocr_info",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func requiredParams(t *testing.T, tool Tool) map[string]bool {
	t.Helper()
	out := make(map[string]bool)
	required, ok := tool.InputSchema["required"]
	if !ok {
		return out
	}
	list, ok := required.([]string)
	if !ok {
		t.Fatalf("%s: 'required' should be a string slice", tool.Name)
	}
	for _, r := range list {
		out[r] = true
	}
	return out
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string][]string{
		"image_load":        {"path"},
		"image_dimensions":  {"path"},
		"image_detect_text": {"path"},
		"image_erase_text":  {"path"},
		"image_translate":   {"path", "output_path"},
		"image_ocr_info":    nil,
	}

	for _, tool := range GetToolDefinitions() {
		want, ok := tests[tool.Name]
		if !ok {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			got := requiredParams(t, tool)
			if len(got) != len(want) {
				t.Errorf("required: got %v, want %v", got, want)
			}
			for _, w := range want {
				if !got[w] {
					t.Errorf("%s should be required", w)
				}
				props := tool.InputSchema["properties"].(map[string]interface{})
				if _, ok := props[w]; !ok {
					t.Errorf("required %s missing from properties", w)
				}
			}
		})
	}
}

func TestToolDefinitions_Detections(t *testing.T) {
	for _, name := range []string{"image_erase_text", "image_translate"} {
		t.Run(name, func(t *testing.T) {
			var tool Tool
			for _, tl := range GetToolDefinitions() {
				if tl.Name == name {
					tool = tl
				}
			}
			props := tool.InputSchema["properties"].(map[string]interface{})
			dets, ok := props["detections"].(map[string]interface{})
			if !ok {
				t.Fatal("detections property missing")
			}
			if dets["type"] != "array" {
				t.Errorf("detections type: got %v, want array", dets["type"])
			}
			item := dets["items"].(map[string]interface{})
			itemProps := item["properties"].(map[string]interface{})
			for _, field := range []string{"quad", "text", "confidence"} {
				if _, ok := itemProps[field]; !ok {
					t.Errorf("detection item missing %s", field)
				}
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
