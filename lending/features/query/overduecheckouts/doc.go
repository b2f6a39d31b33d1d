// Package overduecheckouts is the overdue scan: open checkouts whose due day lies before today,
// and the books they hold. It only reads, acting on the result is up to the caller.
package overduecheckouts
