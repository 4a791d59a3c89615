// Package pgstore persists MFA settings in PostgreSQL via pgx.
//
// The (user_id, method) uniqueness invariant is enforced by the schema, and
// failure-counter updates are single conditional UPDATE statements so that
// parallel verification attempts against the same row serialize inside the
// database instead of racing in application code.
package pgstore
