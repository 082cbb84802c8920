// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxIntArg bounds integer arguments so the float64 to int conversion is exact.
const maxIntArg = math.MaxInt32

// stringArg returns a trimmed string argument, or "" when it is missing or
// not a string.
func stringArg(req mcp.CallToolRequest, key string) string {
	v, _ := req.GetArguments()[key].(string)
	return strings.TrimSpace(v)
}

// intArg extracts a positive integer argument, returning defaultVal if the
// key is missing. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) (int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return defaultVal, nil
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if v > maxIntArg {
		return 0, fmt.Errorf("%s must be at most %d", key, maxIntArg)
	}
	if v < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", key, int(v))
	}
	return int(v), nil
}
