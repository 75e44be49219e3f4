// Package predicates implements erecon's blocking predicate family as
// tagged data rather than function values: a Predicate names its Kind,
// target Field, and any Params, so it can be serialized, hashed, and
// compared for equality without reflecting into a closure.
package predicates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/tfidf"
)

// Kind enumerates the predicate family. Order matters only for
// readability; lexicographic tie-breaks in BlockingLearner compare Kind
// by its string form, not this integer.
type Kind int

const (
	KindWholeField Kind = iota
	KindToken
	KindFirstInteger
	KindSamePrefix
	KindNearInteger
	KindNGram4
	KindNGram6
	KindTFIDFCanopy
	KindSoundex // phonetic blocking: groups records whose field shares a Soundex code.
)

func (k Kind) String() string {
	switch k {
	case KindWholeField:
		return "whole_field"
	case KindToken:
		return "token"
	case KindFirstInteger:
		return "first_integer"
	case KindSamePrefix:
		return "same_prefix"
	case KindNearInteger:
		return "near_integer"
	case KindNGram4:
		return "ngram4"
	case KindNGram6:
		return "ngram6"
	case KindTFIDFCanopy:
		return "tfidf_canopy"
	case KindSoundex:
		return "soundex"
	default:
		return "unknown"
	}
}

// Predicate is tagged data describing one blocking predicate instance.
// PrefixLen is meaningful only for KindSamePrefix (3, 5, or 7).
// Threshold is meaningful only for KindTFIDFCanopy (0.2, 0.4, 0.6, 0.8).
type Predicate struct {
	Kind      Kind
	Field     string
	PrefixLen int
	Threshold float64
}

// ID returns a deterministic string identifier for this predicate
// instance, used both as part of blocking keys and as the lexicographic
// tie-break key in BlockingLearner.
func (p Predicate) ID() string {
	switch p.Kind {
	case KindSamePrefix:
		return fmt.Sprintf("%s(%d)", p.Kind, p.PrefixLen)
	case KindTFIDFCanopy:
		return fmt.Sprintf("%s(%.1f)", p.Kind, p.Threshold)
	default:
		return p.Kind.String()
	}
}

// Index is the set of collaborators a predicate may need beyond the
// record itself — currently just the TF-IDF index for canopy queries.
type Index struct {
	TFIDF *tfidf.Index
}

// Keys computes the blocking keys a predicate produces for one record.
// Each key is a deterministic byte string: predicate ID, field, and
// value, joined so that distinct (predicate, field, value) triples never
// collide.
func Keys(p Predicate, rec model.Record, idx Index) [][]byte {
	val, ok := rec.Get(p.Field)
	if !ok {
		return nil
	}

	switch p.Kind {
	case KindWholeField:
		return buildAll([]keyBuilder{{p, val}})
	case KindToken:
		var out []keyBuilder
		for _, tok := range strings.Fields(val) {
			out = append(out, keyBuilder{p, tok})
		}
		return buildAll(out)
	case KindFirstInteger:
		if n, ok := firstInteger(val); ok {
			return buildAll([]keyBuilder{{p, n}})
		}
		return nil
	case KindSamePrefix:
		r := []rune(val)
		if len(r) < p.PrefixLen {
			return nil
		}
		return buildAll([]keyBuilder{{p, string(r[:p.PrefixLen])}})
	case KindNearInteger:
		n, ok := firstInteger(val)
		if !ok {
			return nil
		}
		iv, _ := strconv.Atoi(n)
		var out []keyBuilder
		for _, delta := range []int{-1, 0, 1} {
			out = append(out, keyBuilder{p, strconv.Itoa(iv + delta)})
		}
		return buildAll(out)
	case KindNGram4:
		return buildAll(ngramKeys(p, val, 4))
	case KindNGram6:
		return buildAll(ngramKeys(p, val, 6))
	case KindTFIDFCanopy:
		if idx.TFIDF == nil {
			return nil
		}
		ids := idx.TFIDF.Query(rec, p.Threshold)
		var out []keyBuilder
		for _, id := range ids {
			out = append(out, keyBuilder{p, id})
		}
		return buildAll(out)
	case KindSoundex:
		code := matchr.Soundex(val)
		if code == "" {
			return nil
		}
		return buildAll([]keyBuilder{{p, code}})
	default:
		return nil
	}
}

func ngramKeys(p Predicate, val string, n int) []keyBuilder {
	r := []rune(val)
	if len(r) < n {
		return nil
	}
	var out []keyBuilder
	for i := 0; i+n <= len(r); i++ {
		out = append(out, keyBuilder{p, string(r[i : i+n])})
	}
	return out
}

func firstInteger(s string) (string, bool) {
	var start = -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
		} else if start != -1 {
			return s[start:i], true
		}
	}
	if start != -1 {
		return s[start:], true
	}
	return "", false
}

// keyBuilder pairs a predicate with a resolved value, deferring the
// final byte-string assembly to build().
type keyBuilder struct {
	p   Predicate
	val string
}

func (k keyBuilder) bytes() []byte {
	return []byte(k.p.ID() + "\x00" + k.p.Field + "\x00" + k.val)
}

func buildAll(ks []keyBuilder) [][]byte {
	if len(ks) == 0 {
		return nil
	}
	out := make([][]byte, len(ks))
	for i, k := range ks {
		out[i] = k.bytes()
	}
	return out
}

// SortDisjunction returns a copy of ps sorted lexicographically by
// (ID, Field), matching BlockingLearner's deterministic tie-break rule.
func SortDisjunction(ps []Predicate) []Predicate {
	out := append([]Predicate(nil), ps...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID() != out[j].ID() {
			return out[i].ID() < out[j].ID()
		}
		return out[i].Field < out[j].Field
	})
	return out
}
