package pulse

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/fllarpy/pulse/domain/metrics"
)

// Labels represents a collection of label name -> value mappings identifying
// one series within a family, e.g.:
//
//	requests.GetOrCreate(pulse.Labels{"method": "GET", "code": "200"}).Inc()
//
// Two label sets are equal iff they contain the same pairs; map order never
// matters. A Labels value is copied into the family's key space on first
// use, so the caller may reuse or mutate the map afterwards.
type Labels map[string]string

// separator keeps "a" + "bc" and "ab" + "c" from hashing alike. 0xff cannot
// occur inside valid UTF-8 label content.
var separator = []byte{0xff}

// signature returns a canonical xxhash fingerprint of the label set.
func (l Labels) signature() uint64 {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)

	d := xxhash.New()
	for _, name := range names {
		_, _ = d.WriteString(name)
		_, _ = d.Write(separator)
		_, _ = d.WriteString(l[name])
		_, _ = d.Write(separator)
	}
	return d.Sum64()
}

// pairs returns an owned copy of the labels, sorted by name.
func (l Labels) pairs() []metrics.LabelPair {
	if len(l) == 0 {
		return nil
	}
	out := make([]metrics.LabelPair, 0, len(l))
	for name, value := range l {
		out = append(out, metrics.LabelPair{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// pairsMatch reports whether a stored, sorted pair slice carries exactly the
// given label set. Used to resolve signature collisions.
func pairsMatch(pairs []metrics.LabelPair, l Labels) bool {
	if len(pairs) != len(l) {
		return false
	}
	for _, p := range pairs {
		if v, ok := l[p.Name]; !ok || v != p.Value {
			return false
		}
	}
	return true
}
