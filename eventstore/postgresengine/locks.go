package postgresengine

import (
	"fmt"
	"hash/fnv"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	lockModeRowExclusive      = "ROW EXCLUSIVE"
	lockModeShareRowExclusive = "SHARE ROW EXCLUSIVE"
)

// lockStatements returns the statements an append runs before its conditional insert.
//
// The table lock is ROW EXCLUSIVE, which does not conflict with itself. Filters that match by
// event type alone can not be narrowed to entity keys, so they take SHARE ROW EXCLUSIVE and
// exclude all other appends. Advisory locks follow in ascending key order.
func (es EventStore) lockStatements(filter eventstore.Filter, events eventstore.StorableEvents) []string {
	mode := lockModeRowExclusive
	if filter.HasItemWithoutPredicates() {
		mode = lockModeShareRowExclusive
	}

	statements := []string{fmt.Sprintf(`LOCK TABLE %q IN %s MODE`, es.eventTableName, mode)}

	for _, key := range advisoryLockKeys(filter, events) {
		statements = append(statements, fmt.Sprintf(`SELECT pg_advisory_xact_lock(%d)`, key))
	}

	return statements
}

// advisoryLockKeys hashes every filter predicate, plus the values the appended events carry
// for the filter's predicate keys. A concurrent writer of a matching event takes the same key.
func advisoryLockKeys(filter eventstore.Filter, events eventstore.StorableEvents) []int64 {
	pairs := make([]string, 0)

	for _, predicate := range filter.Predicates() {
		pairs = append(pairs, predicate.Key()+"="+predicate.Val())
	}

	predicateKeys := filter.PredicateKeys()
	for _, event := range events {
		for _, key := range predicateKeys {
			field := jsoniter.Get(event.PayloadJSON, key)
			if field.ValueType() != jsoniter.StringValue || field.ToString() == "" {
				continue
			}

			pairs = append(pairs, key+"="+field.ToString())
		}
	}

	keys := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		h := fnv.New64a()
		_, _ = h.Write([]byte(pair))
		keys = append(keys, int64(h.Sum64())) //nolint:gosec // wrap-around is fine for a lock key
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}
