// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Formpoint API server.

Formpoint is a forms and survey platform: users create and publish
forms, submit responses to each other's forms, and earn points for
participating. Points are spent viewing other users' shared documents.
Admins get read-only visibility across users, forms, and documents.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:formpoint.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 5000 -t postgres -d "postgres://..." -jwt-secret "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - JWT_SECRET (-jwt-secret): Secret for signing session tokens

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - SWEEP_SCHEDULE (-sweep): Cron expression for the expiry sweeper (default: daily 03:00)
  - FRONTEND_URL (-frontend): Allowed CORS origin

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, forms, responses, documents, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - models: Request/response types
  - auth: JWT issuing and verification, password hashing
  - points: Point ledger credit/debit
  - sweeper: Scheduled demotion of expired forms
  - db: Engine selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
