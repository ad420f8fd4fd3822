package common

import (
	"fmt"
	"strings"
)

// RequiredStringArg returns a string argument or an error naming it when it
// is missing or not a string. The empty string is passed through.
func RequiredStringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// OptionalStringArg returns a pointer to a string argument. Missing,
// non-string and empty values are treated as absent.
func OptionalStringArg(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// BoolArg returns a boolean argument. Clients that send "true"/"false" as
// strings are accepted as well; anything else is false.
func BoolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// StringArg returns a string argument or "" when missing.
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}
