// Package notify defines the port through which the lending engine announces what happened.
//
// Triggers are called after a transition committed. They record or publish that a notification
// is due, delivering it to a patron is up to whatever consumes them.
package notify
