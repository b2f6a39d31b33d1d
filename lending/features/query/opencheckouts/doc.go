// Package opencheckouts lists checkout records that have not been returned yet,
// either of one patron or of one book.
package opencheckouts
