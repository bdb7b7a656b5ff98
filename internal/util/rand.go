package util

import (
	"strings"

	"github.com/google/uuid"
)

// RandToken returns a random lowercase hex token of n characters (n <= 32).
func RandToken(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}
