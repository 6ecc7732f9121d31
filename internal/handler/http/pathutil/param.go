package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidParam is returned when a path parameter is missing or malformed.
var ErrInvalidParam = errors.New("invalid path parameter")

// ExtractParam extracts the single path segment following the prefix.
//
// Example:
//
//	leadID, err := ExtractParam("/analytics/by-lead/lead_abc", "/analytics/by-lead/")
//	// Returns: "lead_abc", nil
func ExtractParam(path, prefix string) (string, error) {
	param := strings.TrimPrefix(path, prefix)
	param = strings.TrimSuffix(param, "/")
	if param == "" || strings.Contains(param, "/") {
		return "", ErrInvalidParam
	}
	return param, nil
}
