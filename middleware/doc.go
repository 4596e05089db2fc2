// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: request start/finish logging with duration
  - RequireAuth: verifies the Authorization bearer token and stores
    the caller's claims on the request context
  - RequireRole: RequireAuth plus a role check (admin routes)
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse / ErrorResponse: JSON body writers
  - ParseJSONBody: request body decoding
  - ClaimsFromContext: read verified claims inside a handler
  - ContextWithClaims: attach claims directly (tests)

Handlers behind RequireAuth trust ClaimsFromContext verbatim; identity
is never re-derived past the middleware.
*/
package middleware
