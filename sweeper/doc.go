// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sweeper runs the scheduled job that demotes expired
// published forms back to drafts. The schedule is a cron expression
// supplied through configuration; the sweep itself is a single
// idempotent UPDATE so overlapping or repeated runs are harmless.
package sweeper
