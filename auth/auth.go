// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// Request headers carrying credentials
const (
	AdminKeyHeader = "X-Admin-Key"
	CodewordHeader = "X-Group-Codeword"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidCodeword = errors.New("invalid group codeword")
)

// GenerateAdminKey creates an HMAC-based admin key for an election.
// It is deterministic, so nothing needs to be stored to validate it later.
func GenerateAdminKey(electionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(electionID))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks the admin key presented for an election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// ValidateCodeword compares a presented group codeword with the election's.
// Surrounding whitespace is ignored; an empty codeword never matches.
func ValidateCodeword(presented, expected string) error {
	presented = strings.TrimSpace(presented)
	expected = strings.TrimSpace(expected)
	if presented == "" || !hmac.Equal([]byte(presented), []byte(expected)) {
		return ErrInvalidCodeword
	}
	return nil
}
