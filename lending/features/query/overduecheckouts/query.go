package overduecheckouts

import (
	"time"
)

const (
	queryType = "OverdueCheckouts"
)

// Query represents the intent to find checkouts that are overdue at Now.
type Query struct {
	Now time.Time
}

// BuildQuery creates a new Query for the given point in time.
func BuildQuery(now time.Time) Query {
	return Query{Now: now.UTC()}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
