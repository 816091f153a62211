package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// argument errors are reported back to the caller as tool errors, never as protocol errors

func arguments(req mcp.CallToolRequest) map[string]any {
	args := req.GetArguments()
	if args == nil {
		return map[string]any{}
	}
	return args
}

func requireString(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return s, nil
}

func requireFloat(args map[string]any, name string) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing required argument %q", name)
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("argument %q must be a number", name)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %q must be a number", name)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("argument %q must be a number", name)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("argument %q must be finite", name)
	}
	return f, nil
}

func requireInt(args map[string]any, name string) (int64, error) {
	f, err := requireFloat(args, name)
	if err != nil {
		return 0, fmt.Errorf("argument %q must be an integer", name)
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("argument %q must be an integer", name)
	}
	return int64(f), nil
}

// requireInt32 is requireInt limited to the range of an INTEGER column
func requireInt32(args map[string]any, name string) (int, error) {
	n, err := requireInt(args, name)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("argument %q must be a 32-bit integer", name)
	}
	return int(n), nil
}

func requireObject(args map[string]any, name string) (map[string]any, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, fmt.Errorf("missing required argument %q", name)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be an object", name)
	}
	return obj, nil
}

// jsonResult serializes v as the text content of a successful result
func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
