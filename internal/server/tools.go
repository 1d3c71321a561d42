package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// borderNames lists the accepted "border" values in schema order.
var borderNames = []string{"extend", "mirror", "wrap", "none"}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func borderProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "string",
		"enum": borderNames,
		"description": "How samples outside the image are produced: extend (repeat the edge sample), " +
			"mirror (reflect about the edge sample), wrap (tile the image) or none (leave the border band " +
			"of the output untouched). Defaults to the server's configured border.",
	}
}

func regionProperties() map[string]interface{} {
	return map[string]interface{}{
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional rectangle to filter; its edges are treated as image edges",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
				"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
				"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
				"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"named_region": map[string]interface{}{
			"type": "string",
			"enum": []string{
				"full", "top-left", "top-right", "bottom-left", "bottom-right",
				"top-half", "bottom-half", "left-half", "right-half", "center",
			},
			"description": "Optional named part of the image to filter. Ignored when region is set.",
		},
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional path to also save the result to; the format follows the extension",
	}
}

// withProps merges property maps into one.
func withProps(sets ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and channel count. The image stays cached for subsequent operations.",
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
		{
			Name:        "image_unload",
			Description: "Drop an image from the cache so the next operation rereads it from disk. Without a path, clears the whole cache.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path of the image to drop",
					},
				},
			},
		},

		// Filtering
		{
			Name:        "image_convolve",
			Description: "Convolve every channel of an image with a custom kernel and return the result as base64-encoded PNG. The kernel is applied as correlation (not flipped); even-sized kernels are anchored above and left of center.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProps(map[string]interface{}{
					"path": pathProperty(),
					"kernel": map[string]interface{}{
						"type":        "array",
						"description": "Kernel weights as rows of numbers, e.g. [[0,-1,0],[-1,5,-1],[0,-1,0]]. All rows must have the same length.",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "number"},
						},
					},
					"border": borderProperty(),
					"normalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Divide the kernel by its sum first (skipped when the sum is zero). Default false",
						"default":     false,
					},
					"output_path": outputPathProperty(),
				}, regionProperties()),
				"required": []string{"path", "kernel"},
			},
		},
		{
			Name:        "image_gaussian_blur",
			Description: "Blur an image with a square Gaussian kernel and return the result as base64-encoded PNG. The separable form runs a row pass and a column pass and is much faster for large kernels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProps(map[string]interface{}{
					"path": pathProperty(),
					"kernel_size": map[string]interface{}{
						"type":        "integer",
						"description": "Positive odd kernel width and height. Defaults to the server's configured size",
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Standard deviation. 0 or omitted derives it from kernel_size as 0.3*((k-1)*0.5-1)+0.8",
						"default":     0,
					},
					"border": borderProperty(),
					"separable": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the two-pass separable implementation. Default false",
						"default":     false,
					},
					"output_path": outputPathProperty(),
				}, regionProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_gaussian_kernel",
			Description: "Return the normalized Gaussian kernel weights for the given size and sigma, without touching any image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Kernel width. Defaults to the server's configured size",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Kernel height. Defaults to width",
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Standard deviation. 0 or omitted derives it from the larger dimension",
						"default":     0,
					},
				},
			},
		},
		{
			Name:        "image_blur_compare",
			Description: "Run the joint and separable Gaussian blur with identical settings and report how far their outputs differ, overall and away from the border band.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProps(map[string]interface{}{
					"path": pathProperty(),
					"kernel_size": map[string]interface{}{
						"type":        "integer",
						"description": "Positive odd kernel width and height. Defaults to the server's configured size",
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Standard deviation. 0 or omitted derives it from kernel_size",
						"default":     0,
					},
					"border": borderProperty(),
				}, regionProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection (Gaussian blur, Sobel gradients, non-maximum suppression, hysteresis) and return a black-and-white edge map as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low gradient threshold (0-255). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High gradient threshold (0-255). Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
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
