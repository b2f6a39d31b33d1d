// Package releasewaitlisthead implements the explicit waitlist cleanup: the head entry is
// dequeued without a checkout, for example when the head patron no longer wants the book.
// Releasing the head of an empty waitlist is an idempotent no-op.
package releasewaitlisthead
