package predicates

import (
	"testing"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

func rec(id string, attrs map[string]string) model.Record {
	return model.Record{ID: id, Attributes: attrs}
}

func keySet(keys [][]byte) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[string(k)] = true
	}
	return out
}

func TestSamePrefixPredicate(t *testing.T) {
	p := Predicate{Kind: KindSamePrefix, Field: "name", PrefixLen: 3}

	abcdef := rec("1", map[string]string{"name": "abcdef"})
	abcxyz := rec("2", map[string]string{"name": "abcxyz"})
	xyzdef := rec("3", map[string]string{"name": "xyzdef"})

	k1 := keySet(Keys(p, abcdef, Index{}))
	k2 := keySet(Keys(p, abcxyz, Index{}))
	k3 := keySet(Keys(p, xyzdef, Index{}))

	shared := false
	for k := range k1 {
		if k2[k] {
			shared = true
		}
	}
	if !shared {
		t.Errorf("abcdef and abcxyz should share a same-prefix(3) key")
	}
	for k := range k1 {
		if k3[k] {
			t.Errorf("abcdef and xyzdef should not share a same-prefix(3) key")
		}
	}
}

func TestSamePrefixTooShortYieldsNoKeys(t *testing.T) {
	p := Predicate{Kind: KindSamePrefix, Field: "name", PrefixLen: 7}
	r := rec("1", map[string]string{"name": "abc"})
	if keys := Keys(p, r, Index{}); keys != nil {
		t.Errorf("expected no keys for too-short value, got %v", keys)
	}
}

func TestMissingFieldYieldsNoKeys(t *testing.T) {
	p := Predicate{Kind: KindWholeField, Field: "phone"}
	r := rec("1", map[string]string{"name": "sally"})
	if keys := Keys(p, r, Index{}); keys != nil {
		t.Errorf("expected no keys for missing field, got %v", keys)
	}
}

func TestTokenPredicateSplitsWhitespace(t *testing.T) {
	p := Predicate{Kind: KindToken, Field: "name"}
	r := rec("1", map[string]string{"name": "sally jones"})
	keys := Keys(p, r, Index{})
	if len(keys) != 2 {
		t.Fatalf("expected 2 token keys, got %d: %v", len(keys), keys)
	}
}

func TestFirstIntegerPredicate(t *testing.T) {
	p := Predicate{Kind: KindFirstInteger, Field: "addr"}
	a := rec("1", map[string]string{"addr": "123 Main St"})
	b := rec("2", map[string]string{"addr": "123 Oak Ave"})
	c := rec("3", map[string]string{"addr": "456 Main St"})

	ka := keySet(Keys(p, a, Index{}))
	kb := keySet(Keys(p, b, Index{}))
	kc := keySet(Keys(p, c, Index{}))

	shared := false
	for k := range ka {
		if kb[k] {
			shared = true
		}
	}
	if !shared {
		t.Errorf("records with the same leading integer should share a key")
	}
	for k := range ka {
		if kc[k] {
			t.Errorf("records with different leading integers should not share a key")
		}
	}
}

func TestNearIntegerPredicateOverlapsAdjacent(t *testing.T) {
	p := Predicate{Kind: KindNearInteger, Field: "addr"}
	a := rec("1", map[string]string{"addr": "100"})
	b := rec("2", map[string]string{"addr": "101"})

	ka := keySet(Keys(p, a, Index{}))
	kb := keySet(Keys(p, b, Index{}))

	shared := false
	for k := range ka {
		if kb[k] {
			shared = true
		}
	}
	if !shared {
		t.Errorf("near-integer predicate should overlap for addr=100 and addr=101")
	}
}

func TestNGramPredicatesDeterministic(t *testing.T) {
	p := Predicate{Kind: KindNGram4, Field: "name"}
	r := rec("1", map[string]string{"name": "abcdefgh"})
	k1 := Keys(p, r, Index{})
	k2 := Keys(p, r, Index{})
	if len(k1) != len(k2) {
		t.Fatalf("ngram keys not deterministic in count")
	}
	for i := range k1 {
		if string(k1[i]) != string(k2[i]) {
			t.Errorf("ngram keys not deterministic at %d", i)
		}
	}
}

func TestSoundexPredicateMatchesHomophones(t *testing.T) {
	p := Predicate{Kind: KindSoundex, Field: "name"}
	a := rec("1", map[string]string{"name": "Robert"})
	b := rec("2", map[string]string{"name": "Rupert"})

	ka := keySet(Keys(p, a, Index{}))
	kb := keySet(Keys(p, b, Index{}))

	shared := false
	for k := range ka {
		if kb[k] {
			shared = true
		}
	}
	if !shared {
		t.Errorf("Robert and Rupert should share a soundex key")
	}
}

func TestSortDisjunctionIsDeterministic(t *testing.T) {
	ps := []Predicate{
		{Kind: KindToken, Field: "z"},
		{Kind: KindSamePrefix, Field: "a", PrefixLen: 3},
		{Kind: KindSamePrefix, Field: "a", PrefixLen: 5},
	}
	sorted1 := SortDisjunction(ps)
	sorted2 := SortDisjunction(ps)
	for i := range sorted1 {
		if sorted1[i] != sorted2[i] {
			t.Errorf("SortDisjunction not deterministic at %d", i)
		}
	}
}
