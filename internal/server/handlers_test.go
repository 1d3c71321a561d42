package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-convolve-mcp/internal/config"
	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

// createTestImageFile writes a solid-color PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	require.NotNil(t, resp)
	return resp
}

// toolResult decodes the JSON text payload of a successful tool response.
func toolResult(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), &out))
	return out
}

func requireToolError(t *testing.T, resp *MCPResponse) string {
	t.Helper()
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
	return resp.Error.Data.(string)
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	out := toolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}))
	assert.Equal(t, float64(100), out["width"])
	assert.Equal(t, float64(80), out["height"])
	assert.Equal(t, float64(4), out["channels"])
	assert.Equal(t, "png", out["format"])
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	out := toolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}))
	assert.Equal(t, map[string]interface{}{"width": float64(200), "height": float64(150)}, out)
}

func TestHandleToolsCall_ImageUnload(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 10, 10, color.White)

	toolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}))
	require.Equal(t, 1, s.cache.Len())

	out := toolResult(t, callTool(t, s, "image_unload", map[string]interface{}{"path": imgPath}))
	assert.Equal(t, float64(0), out["remaining"])
	assert.Equal(t, 0, s.cache.Len())

	toolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}))
	out = toolResult(t, callTool(t, s, "image_unload", nil))
	assert.Equal(t, true, out["cleared"])
	assert.Equal(t, 0, s.cache.Len())
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer()
	for _, tool := range []string{"image_load", "image_dimensions", "image_convolve", "image_gaussian_blur", "image_edge_detect"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{
				"path":   "/nonexistent/image.png",
				"kernel": [][]float64{{1}},
			})
			requireToolError(t, resp)
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	data := requireToolError(t, callTool(t, newTestServer(), "image_sharpen_everything", map[string]interface{}{}))
	assert.Contains(t, data, "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestHandleToolsCall_InvalidArguments(t *testing.T) {
	data := requireToolError(t, callTool(t, newTestServer(), "image_convolve", map[string]interface{}{
		"path":   "/x.png",
		"kernel": "not a matrix",
	}))
	assert.Contains(t, data, "invalid arguments")
}

func TestHandleToolsCall_Convolve(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 20, 12, color.RGBA{60, 120, 180, 255})
	outPath := filepath.Join(t.TempDir(), "convolved.png")

	out := toolResult(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":        imgPath,
		"kernel":      [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
		"normalize":   true,
		"border":      "mirror",
		"output_path": outPath,
	}))

	assert.Equal(t, float64(20), out["width"])
	assert.Equal(t, float64(12), out["height"])
	assert.Equal(t, "mirror", out["border"])
	assert.Equal(t, "image/png", out["mime_type"])
	assert.NotEmpty(t, out["image_base64"])
	assert.FileExists(t, outPath)
}

func TestHandleToolsCall_ConvolveZeroSumKernelStaysOpaque(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{90, 140, 30, 255})
	outPath := filepath.Join(t.TempDir(), "laplacian.png")

	toolResult(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":        imgPath,
		"kernel":      [][]float64{{0, 1, 0}, {1, -4, 1}, {0, 1, 0}},
		"output_path": outPath,
	}))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	out, err := png.Decode(f)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			_, _, _, a := out.At(x, y).RGBA()
			require.Equal(t, uint32(0xffff), a, "alpha at (%d,%d)", x, y)
		}
	}
}

func TestHandleToolsCall_ConvolveDefaultBorder(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultBorder = convolution.Wrap
	s := New(cfg)
	imgPath := createTestImageFile(t, 8, 8, color.White)

	out := toolResult(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":   imgPath,
		"kernel": [][]float64{{0, 1, 0}},
	}))
	assert.Equal(t, "wrap", out["border"])
}

func TestHandleToolsCall_ConvolveRegions(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 40, 20, color.Gray{128})

	out := toolResult(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":   imgPath,
		"kernel": [][]float64{{1}},
		"region": map[string]int{"x1": 4, "y1": 2, "x2": 14, "y2": 7},
	}))
	assert.Equal(t, float64(10), out["width"])
	assert.Equal(t, float64(5), out["height"])

	out = toolResult(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":         imgPath,
		"kernel":       [][]float64{{1}},
		"named_region": "left-half",
	}))
	assert.Equal(t, float64(20), out["width"])
	assert.Equal(t, float64(20), out["height"])

	requireToolError(t, callTool(t, s, "image_convolve", map[string]interface{}{
		"path":         imgPath,
		"kernel":       [][]float64{{1}},
		"named_region": "somewhere",
	}))
}

func TestHandleToolsCall_ConvolveErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxKernelSize = 3
	s := New(cfg)
	imgPath := createTestImageFile(t, 8, 8, color.White)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"empty kernel", map[string]interface{}{"path": imgPath, "kernel": [][]float64{}}, "kernel is empty"},
		{"ragged kernel", map[string]interface{}{"path": imgPath, "kernel": [][]float64{{1, 2}, {3}}}, "different lengths"},
		{"unknown border", map[string]interface{}{"path": imgPath, "kernel": [][]float64{{1}}, "border": "sideways"}, "unknown border"},
		{"too large", map[string]interface{}{"path": imgPath, "kernel": [][]float64{{1, 1, 1, 1, 1}}}, "maximum size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := requireToolError(t, callTool(t, s, "image_convolve", tt.args))
			assert.Contains(t, data, tt.want)
		})
	}
}

func TestHandleToolsCall_GaussianBlur(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 30, 30, color.RGBA{10, 200, 90, 255})

	for _, separable := range []bool{false, true} {
		out := toolResult(t, callTool(t, s, "image_gaussian_blur", map[string]interface{}{
			"path":      imgPath,
			"separable": separable,
		}))
		assert.Equal(t, float64(5), out["kernel_width"], "default kernel size")
		assert.InDelta(t, convolution.SigmaForKernelSize(5), out["sigma"], 1e-12)
		assert.Equal(t, "extend", out["border"])
		if separable {
			assert.Equal(t, true, out["separable"])
		} else {
			assert.NotContains(t, out, "separable")
		}
	}
}

func TestHandleToolsCall_GaussianBlurErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxKernelSize = 7
	s := New(cfg)
	imgPath := createTestImageFile(t, 8, 8, color.White)

	data := requireToolError(t, callTool(t, s, "image_gaussian_blur", map[string]interface{}{
		"path": imgPath, "kernel_size": 4,
	}))
	assert.Contains(t, data, "invalid kernel size")

	data = requireToolError(t, callTool(t, s, "image_gaussian_blur", map[string]interface{}{
		"path": imgPath, "kernel_size": 9,
	}))
	assert.Contains(t, data, "maximum size")
}

func TestHandleToolsCall_GaussianKernel(t *testing.T) {
	out := toolResult(t, callTool(t, newTestServer(), "image_gaussian_kernel", map[string]interface{}{
		"width": 3,
		"sigma": 1.0,
	}))
	assert.Equal(t, float64(3), out["width"])
	assert.Equal(t, float64(3), out["height"], "height defaults to width")
	assert.InDelta(t, 1.0, out["sum"], 1e-9)

	weights := out["weights"].([]interface{})
	require.Len(t, weights, 3)
	centre := weights[1].([]interface{})[1].(float64)
	corner := weights[0].([]interface{})[0].(float64)
	assert.Greater(t, centre, corner)
}

func TestHandleToolsCall_BlurCompare(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 16, 16, color.RGBA{200, 100, 50, 255})

	out := toolResult(t, callTool(t, s, "image_blur_compare", map[string]interface{}{
		"path":        imgPath,
		"kernel_size": 3,
		"border":      "wrap",
	}))
	interior := out["interior"].(map[string]interface{})
	assert.Equal(t, float64(0), interior["max_abs_diff"], "uniform image blurs identically")
	assert.Equal(t, "wrap", out["border"])
}

func TestHandleToolsCall_EdgeDetect(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 50, 50, color.White)

	out := toolResult(t, callTool(t, s, "image_edge_detect", map[string]interface{}{
		"path":           imgPath,
		"threshold_low":  30,
		"threshold_high": 90,
	}))
	assert.Equal(t, float64(50), out["width"])
	assert.NotEmpty(t, out["image_base64"])
}
