package tools

import (
	"fmt"
	"math"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"brushcolor/internal/palette"
	"brushcolor/internal/pixbuf"
)

// GetArgs extracts the arguments map from a CallToolRequest.
// A request without arguments yields an empty map.
func GetArgs(req mcplib.CallToolRequest) (map[string]any, error) {
	if req.Params.Arguments == nil {
		return map[string]any{}, nil
	}
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return args, nil
}

// GetStringArg extracts a required string argument from the arguments map.
func GetStringArg(args map[string]any, name string) (string, error) {
	val, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("%s argument is required and must be a string", name)
	}
	return val, nil
}

// GetOptionalStringArg extracts an optional string argument from the arguments map.
// Returns the default value if the argument is missing, empty, or not a string.
func GetOptionalStringArg(args map[string]any, name string, defaultVal string) string {
	if val, ok := args[name].(string); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetNumberArg extracts a required numeric argument. JSON numbers arrive
// as float64; integer types are accepted for in-process callers.
func GetNumberArg(args map[string]any, name string) (float64, error) {
	switch v := args[name].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%s argument must be a finite number", name)
		}
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%s argument is required and must be a number", name)
	}
}

// GetOptionalNumberArg extracts an optional numeric argument, returning
// defaultVal when it is absent.
func GetOptionalNumberArg(args map[string]any, name string, defaultVal float64) (float64, error) {
	if _, ok := args[name]; !ok {
		return defaultVal, nil
	}
	return GetNumberArg(args, name)
}

// GetOptionalBoolArg extracts an optional boolean argument.
// Returns the default value if the argument is missing or not a boolean.
func GetOptionalBoolArg(args map[string]any, name string, defaultVal bool) bool {
	if val, ok := args[name].(bool); ok {
		return val
	}
	return defaultVal
}

// GetIntArg extracts a required whole-number argument.
func GetIntArg(args map[string]any, name string) (int, error) {
	v, err := GetNumberArg(args, name)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s argument must be a whole number, got %g", name, v)
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%s argument is out of range", name)
	}
	return int(v), nil
}

// GetColorArg resolves an optional color argument (hex or palette name),
// falling back to def when absent.
func GetColorArg(args map[string]any, name string, swatches []palette.Swatch, def pixbuf.Color) (pixbuf.Color, error) {
	s := GetOptionalStringArg(args, name, "")
	if s == "" {
		return def, nil
	}
	return palette.Lookup(swatches, s)
}
