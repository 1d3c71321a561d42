// Package server implements the MCP (Model Context Protocol) server for the
// convolution tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - Input: JSON-RPC requests on stdin
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
//   - image_unload: Evict one image or clear the cache
//
// Filtering:
//   - image_convolve: Apply a custom kernel
//   - image_gaussian_blur: Joint or separable Gaussian blur
//   - image_gaussian_kernel: Inspect Gaussian kernel weights
//   - image_blur_compare: Measure joint vs separable blur differences
//   - image_edge_detect: Canny edge detection
//
// Filtering tools take an optional "border" (extend, mirror, wrap or none)
// and an optional region. Omitted borders and blur sizes come from the
// config.Config the server was created with, which also caps kernel size.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Each tool call is logged at debug level with its name and duration;
// failures are logged at warn level. Logs go to stderr via logrus.
package server
