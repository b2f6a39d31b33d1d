package eventstore

import (
	"cmp"
	"slices"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter describes the dynamic consistency boundary of a decision.
// Its items are OR-ed. Within an item, event types are OR-ed and the predicates are
// OR-ed or AND-ed depending on AllPredicatesMustMatch. Event types and predicates are AND-ed.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// IsEmpty reports whether the filter matches every event.
func (f Filter) IsEmpty() bool {
	return len(f.items) == 0
}

// PredicateKeys returns the sorted, distinct predicate keys of all items.
func (f Filter) PredicateKeys() []FilterKeyString {
	keys := make([]FilterKeyString, 0)

	for _, item := range f.items {
		for _, predicate := range item.predicates {
			keys = append(keys, predicate.key)
		}
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}

// Predicates returns the sorted, distinct predicates of all items.
func (f Filter) Predicates() []FilterPredicate {
	predicates := make([]FilterPredicate, 0)

	for _, item := range f.items {
		predicates = append(predicates, item.predicates...)
	}

	slices.SortFunc(predicates, comparePredicates)

	return slices.Compact(predicates)
}

// HasItemWithoutPredicates reports whether some item matches by event type alone,
// which means the boundary is not narrowed to specific entities.
func (f Filter) HasItemWithoutPredicates() bool {
	if f.IsEmpty() {
		return true
	}

	for _, item := range f.items {
		if len(item.predicates) == 0 {
			return true
		}
	}

	return false
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

// Matches evaluates the item against an event type and a lookup of its payload values.
// Engines that can not push the filter down to a query language use it.
func (fi FilterItem) Matches(eventType FilterEventTypeString, payloadValue func(key FilterKeyString) (FilterValString, bool)) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	for _, predicate := range fi.predicates {
		val, found := payloadValue(predicate.key)
		matched := found && val == predicate.val

		if matched && !fi.allPredicatesMustMatch {
			return true
		}

		if !matched && fi.allPredicatesMustMatch {
			return false
		}
	}

	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

// FilterPredicate matches a top-level string field of the event payload.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

func comparePredicates(a, b FilterPredicate) int {
	if c := cmp.Compare(a.key, b.key); c != 0 {
		return c
	}

	return cmp.Compare(a.val, b.val)
}

/***** FilterBuilder *****/

// FilterBuilder restricts filters to the combinations that make sense for a decision:
//
//   - empty filter (any event)
//   - (eventType OR eventType...)
//   - (predicate OR/AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR/AND predicate...))
//   - several of the above, OR-ed
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent returns the empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds event types to the current item. Empty types are dropped,
	// the rest is sorted and deduplicated.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds predicates of which any must match. Partial predicates are dropped,
	// the rest is sorted and deduplicated.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	// AllPredicatesOf adds predicates of which all must match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// OrMatching closes the current item and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize closes the current item and returns the Filter.
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

// filterBuilder implements all builder stages. It is a value type, so every call works on a copy.
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter starts a filter which must be completed with Finalize or MatchingAnyEvent.
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = sanitizeEventTypes(
		append(slices.Clone(fb.currentFilterItem.eventTypes), append([]FilterEventTypeString{eventType}, eventTypes...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = sanitizePredicates(
		append(slices.Clone(fb.currentFilterItem.predicates), append([]FilterPredicate{predicate}, predicates...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return Filter{}
}

func (fb filterBuilder) Finalize() Filter {
	items := append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	items = slices.DeleteFunc(items, func(item FilterItem) bool {
		return len(item.eventTypes) == 0 && len(item.predicates) == 0
	})

	return Filter{items: slices.Clip(items)}
}

func sanitizeEventTypes(eventTypes []FilterEventTypeString) []FilterEventTypeString {
	eventTypes = slices.DeleteFunc(eventTypes, func(e FilterEventTypeString) bool {
		return e == ""
	})
	slices.Sort(eventTypes)

	return slices.Clip(slices.Compact(eventTypes))
}

func sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	predicates = slices.DeleteFunc(predicates, func(p FilterPredicate) bool {
		return p.key == "" || p.val == ""
	})
	slices.SortFunc(predicates, comparePredicates)

	return slices.Clip(slices.Compact(predicates))
}
