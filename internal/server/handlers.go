package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
	"github.com/ironsheep/image-convolve-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_convolve").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errKernelTooLarge is returned when a kernel exceeds the configured maximum.
var errKernelTooLarge = errors.New("kernel exceeds maximum size")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := log.WithFields(log.Fields{
		"tool":    params.Name,
		"elapsed": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	entry.Debug("tool call")

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted arguments from the server configuration
//  3. Loads images from cache as needed
//  4. Calls the imaging function and returns its result
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_unload":
		return s.handleImageUnload(args)

	// Filtering
	case "image_convolve":
		return s.handleImageConvolve(args)
	case "image_gaussian_blur":
		return s.handleImageGaussianBlur(args)
	case "image_gaussian_kernel":
		return s.handleImageGaussianKernel(args)
	case "image_blur_compare":
		return s.handleImageBlurCompare(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// border resolves an optional border name against the configured default.
func (s *Server) border(name string) (convolution.Border, error) {
	if name == "" {
		return s.cfg.DefaultBorder, nil
	}
	return convolution.ParseBorder(name)
}

// kernelSize resolves an optional blur size and enforces the configured limit.
func (s *Server) kernelSize(ksize int) (int, error) {
	if ksize == 0 {
		ksize = s.cfg.DefaultKernelSize
	}
	if err := s.checkKernelDims(ksize, ksize); err != nil {
		return 0, err
	}
	return ksize, nil
}

func (s *Server) checkKernelDims(width, height int) error {
	if width > s.cfg.MaxKernelSize || height > s.cfg.MaxKernelSize {
		return fmt.Errorf("%w: %dx%d, limit %d", errKernelTooLarge, width, height, s.cfg.MaxKernelSize)
	}
	return nil
}

// regionArgs is embedded by tools that accept a region or named_region.
type regionArgs struct {
	Region      *imaging.Region `json:"region,omitempty"`
	NamedRegion string          `json:"named_region,omitempty"`
}

func (r regionArgs) resolve(img image.Image) (*imaging.Region, error) {
	if r.Region != nil {
		return r.Region, nil
	}
	if r.NamedRegion == "" {
		return nil, nil
	}
	region, err := imaging.NamedRegion(img.Bounds(), r.NamedRegion)
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type unloadResult struct {
	Cleared   bool `json:"cleared"`
	Remaining int  `json:"remaining"`
}

func (s *Server) handleImageUnload(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
		return &unloadResult{Cleared: true}, nil
	}
	s.cache.Evict(a.Path)
	return &unloadResult{Remaining: s.cache.Len()}, nil
}

// === Filtering Handlers ===

type imageConvolveArgs struct {
	Path       string      `json:"path"`
	Kernel     [][]float64 `json:"kernel"`
	Border     string      `json:"border"`
	Normalize  bool        `json:"normalize"`
	OutputPath string      `json:"output_path"`
	regionArgs
}

func (s *Server) handleImageConvolve(args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	border, err := s.border(a.Border)
	if err != nil {
		return nil, err
	}
	if len(a.Kernel) > 0 {
		if err := s.checkKernelDims(len(a.Kernel[0]), len(a.Kernel)); err != nil {
			return nil, err
		}
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, err := a.resolve(img)
	if err != nil {
		return nil, err
	}
	return imaging.Convolve(img, imaging.ConvolveOptions{
		Kernel:     a.Kernel,
		Border:     border,
		Region:     region,
		Normalize:  a.Normalize,
		OutputPath: a.OutputPath,
	})
}

type imageBlurArgs struct {
	Path       string  `json:"path"`
	KernelSize int     `json:"kernel_size"`
	Sigma      float64 `json:"sigma"`
	Border     string  `json:"border"`
	Separable  bool    `json:"separable"`
	OutputPath string  `json:"output_path"`
	regionArgs
}

// blurOptions resolves defaults shared by the blur tools and loads the image.
func (s *Server) blurOptions(a *imageBlurArgs) (image.Image, imaging.BlurOptions, error) {
	var opts imaging.BlurOptions
	border, err := s.border(a.Border)
	if err != nil {
		return nil, opts, err
	}
	ksize, err := s.kernelSize(a.KernelSize)
	if err != nil {
		return nil, opts, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, opts, err
	}
	region, err := a.resolve(img)
	if err != nil {
		return nil, opts, err
	}
	opts = imaging.BlurOptions{
		KernelSize: ksize,
		Sigma:      a.Sigma,
		Border:     border,
		Region:     region,
		Separable:  a.Separable,
		OutputPath: a.OutputPath,
	}
	return img, opts, nil
}

func (s *Server) handleImageGaussianBlur(args json.RawMessage) (interface{}, error) {
	var a imageBlurArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, opts, err := s.blurOptions(&a)
	if err != nil {
		return nil, err
	}
	return imaging.GaussianBlur(img, opts)
}

func (s *Server) handleImageBlurCompare(args json.RawMessage) (interface{}, error) {
	var a imageBlurArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, opts, err := s.blurOptions(&a)
	if err != nil {
		return nil, err
	}
	return imaging.CompareBlurForms(img, opts)
}

type imageGaussianKernelArgs struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Sigma  float64 `json:"sigma"`
}

func (s *Server) handleImageGaussianKernel(args json.RawMessage) (interface{}, error) {
	var a imageGaussianKernelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.cfg.DefaultKernelSize
	}
	if a.Height == 0 {
		a.Height = a.Width
	}
	if err := s.checkKernelDims(a.Width, a.Height); err != nil {
		return nil, err
	}
	return imaging.GaussianKernelInfo(a.Height, a.Width, a.Sigma)
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}
