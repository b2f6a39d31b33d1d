// Package lending is the transaction engine facade.
//
// Engine validates raw input, runs one feature command or query handler per operation and
// triggers notifications once an append has committed. Every transition re-reads its state
// from the event store. Nothing is cached between calls.
package lending
