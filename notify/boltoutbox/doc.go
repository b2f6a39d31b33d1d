// Package boltoutbox records triggered notifications in a Bolt file, so that a separate
// delivery process can pick them up and mark them delivered.
//
// Keys are time-ordered UUIDs: iterating the bucket yields notifications in the order they
// were triggered.
package boltoutbox
