package business

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// The stored description may end with a [PWD:<bcrypt hash>] marker.
var passwordMarker = regexp.MustCompile(`\s*\[PWD:([^\]]*)\]`)

func WithPassword(description, password string) (string, error) {
	if password == "" {
		return description, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	clean := PublicDescription(description)
	if clean == "" {
		return "[PWD:" + string(hash) + "]", nil
	}
	return clean + " [PWD:" + string(hash) + "]", nil
}

func PublicDescription(description string) string {
	return strings.TrimSpace(passwordMarker.ReplaceAllString(description, ""))
}

func PasswordHash(description string) (string, bool) {
	m := passwordMarker.FindStringSubmatch(description)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

func CheckPassword(description, password string) bool {
	hash, ok := PasswordHash(description)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
