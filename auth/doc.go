// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles token issuing/verification and password hashing.

# Tokens

Tokens are HS256 JWTs carrying the caller's identity claims (email,
name, role, profile picture) with a one hour expiry:

	token, err := auth.IssueToken(user, cfg.JWTSecret)
	claims, err := auth.VerifyToken(token, cfg.JWTSecret)

VerifyToken accepts only HS256 and collapses every failure mode to
ErrInvalidToken. Handlers downstream trust the returned claims
verbatim and never re-derive identity.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate)

CheckPassword returns ErrInvalidCredentials on any mismatch, including
empty inputs, so login paths cannot distinguish a missing account from
a wrong password.
*/
package auth
