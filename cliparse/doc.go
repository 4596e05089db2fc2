// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

# Precedence

CLI flags override environment variables, which override defaults:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Settings

Required:

  - DATABASE_URL (-d): database connection string
  - JWT_SECRET (--jwt-secret): token signing secret

Optional:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - SWEEP_SCHEDULE (--sweep): cron expression for the expiry sweep
    (default: "0 3 * * *")
  - FRONTEND_URL (--frontend): allowed CORS origin
*/
package cliparse
