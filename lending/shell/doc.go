// Package shell holds the imperative edge around the pure lending core: mapping domain events to and
// from storable events, event metadata, the conflict retry helper, handler results, and the
// observability helpers the command and query wrappers share.
package shell
