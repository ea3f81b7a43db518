package reporting

import "iter"

// Lookup returns every value in m that covers origin: the entry for
// origin itself, followed by the entries for each of its superdomains,
// most specific first.  Levels without an entry are skipped.
//
// The walk is lazy, so callers that stop ranging early never look at
// the remaining superdomains.
func Lookup[V any](m map[Origin]V, origin Origin) iter.Seq[V] {
	return func(yield func(V) bool) {
		for o, ok := origin, true; ok; o, ok = o.Superdomain() {
			v, present := m[o]
			if !present {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
