// Package identity derives the local identity key that scopes a device's
// cart view and order history.
package identity

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const Guest = "guest"

// KeyFromToken reads the userId claim of a bearer token without verifying
// it. The device never holds the signing secret; the key only partitions
// local data.
func KeyFromToken(token string) string {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Guest
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Guest
	}

	for _, name := range []string{"userId", "sub"} {
		if key := claimString(claims[name]); key != "" {
			return "user:" + key
		}
	}
	return Guest
}

func claimString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return ""
	}
}
