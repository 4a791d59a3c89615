// Package logger is a small factory over log/slog used across the module for
// operational logging: JSON in production, text in development, with a few
// attribute helpers for common fields.
//
//	log := logger.New(logger.WithProduction("mfakit"))
//	log.Error("audit sink unavailable", logger.Error(err), logger.UserID(uid))
package logger
