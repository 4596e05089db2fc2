// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package points maintains the per-user point balance.

Points are a lightweight access-gating currency: submitting a response
to someone else's form credits the submitter one point, and viewing
another owner's shared document debits one.

	points.Credit(tx, email)  // balance += 1
	points.Debit(db, email)   // balance = max(0, balance - 1)

Debit at zero balance is a silent no-op, never an error, so the
balance never goes negative. Credit accepts a transaction so the
response-submission path can apply the insert and the credit as one
atomic unit.
*/
package points
