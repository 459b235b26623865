// Package server implements the MCP (Model Context Protocol) server for image
// translation.
//
// This package provides a JSON-RPC 2.0 server that exposes the translation
// pipeline to MCP-compatible clients, so an assistant can find, erase and
// replace text in screenshots and other images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Text Operations:
//   - image_detect_text: Run OCR and return detections
//   - image_erase_text: Inpaint detections away
//   - image_translate: Detect, erase, translate and redraw; writes a PNG
//   - image_ocr_info: Report OCR engine status
//
// image_erase_text and image_translate accept a detections array. When it is
// omitted the configured detector runs; an empty array means the image has no
// text.
//
// # Image Caching
//
// Images read by image_load, image_detect_text and image_erase_text are cached
// by path for the lifetime of the process. Files the server writes are evicted
// so a later load sees the new contents.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the pipeline error as an object (error_code, message, run_id and
//     details) or the Go error string for anything else
//
// # Usage
//
//	srv := server.New(p, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
