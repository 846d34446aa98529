// Package auth verifies HTTP Basic credentials against values fixed at startup.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nijaru/vidpost/config"
)

// Verify reports whether username and password match expected. When either
// expected value is empty, authentication is disabled and every request is
// accepted. A bcrypt hash is accepted in place of the plain expected password.
func Verify(expected config.AuthConfig, username, password string) bool {
	if !expected.Enabled() {
		return true
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(expected.Username)) == 1

	var passOK bool
	if isBcryptHash(expected.Password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(expected.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(expected.Password)) == 1
	}

	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return len(s) == 60 &&
		(strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
