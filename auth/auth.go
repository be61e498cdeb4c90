// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidAdminKey  = errors.New("invalid admin key")
	ErrInvalidUserToken = errors.New("invalid user token")
)

// ValidateAdminKey compares the provided key with the configured one in constant time
func ValidateAdminKey(provided, expected string) error {
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateUserToken creates an HMAC-based token for a chat user
// This is deterministic and verifiable
func GenerateUserToken(userID int64, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateUserToken checks if the provided token belongs to the user
func ValidateUserToken(userID int64, token, salt string) error {
	expected := GenerateUserToken(userID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidUserToken
	}
	return nil
}
