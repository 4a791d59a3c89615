// Package challenge stores short-lived SMS and email verification codes in
// Redis. Codes expire via key TTLs and are deleted on successful
// verification, giving single-use semantics without any scheduled cleanup.
package challenge
