// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the HTTP boundary. The election core never checks
who is calling; handlers do it with these helpers.

# Admin Keys

Admin keys use HMAC-SHA256 of the election ID:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 without padding. Since it is deterministic,
the same election ID and salt always produce the same key, so it is never
stored. It is returned once, when the election is created, and gates
start, finalize, cancel and delete.

# Group Codewords

Each election has a shared codeword chosen by its admin. Members present
it on every participant, nomination and vote request:

	err := auth.ValidateCodeword(r.Header.Get("X-Group-Codeword"), e.GroupCodeword)

Comparison is constant-time and ignores surrounding whitespace.
*/
package auth
