package bookavailability

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	queryType = "BookAvailability"
)

// Query represents the intent to look up one book.
type Query struct {
	BookID core.ISBNString
}

// BuildQuery creates a new Query. isbn must already be normalized.
func BuildQuery(isbn core.ISBNString) Query {
	return Query{BookID: isbn}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
