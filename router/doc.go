// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires HTTP routes to handlers. Routes use Go 1.22
// method+path patterns. Public routes get request logging; protected
// routes additionally require a valid bearer token, and admin routes
// require the admin role.
package router
