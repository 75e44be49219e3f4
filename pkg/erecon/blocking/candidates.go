package blocking

import (
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
)

// samePrefixLengths are the candidate prefix lengths BlockingLearner
// tries for KindSamePrefix (3-char, 5-char, 7-char prefixes).
var samePrefixLengths = []int{3, 5, 7}

// tfidfThresholds are the candidate cosine cutoffs for KindTFIDFCanopy.
var tfidfThresholds = []float64{0.2, 0.4, 0.6, 0.8}

// CandidatePool enumerates every predicate instance BlockingLearner may
// select from: one instance per (simple Kind, real field), the
// SamePrefix/TFIDFCanopy variant families, Soundex for every real field
// (String or Custom), and pairwise conjunctions of the simple single-field predicates.
func CandidatePool(dm *model.DataModel, idx predicates.Index) []predicates.Clause {
	var simple []predicates.Predicate

	for _, f := range dm.Fields() {
		if f.Kind == model.FieldMissingIndicator {
			continue
		}
		simple = append(simple,
			predicates.Predicate{Kind: predicates.KindWholeField, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindToken, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindFirstInteger, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindNearInteger, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindNGram4, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindNGram6, Field: f.Name},
			predicates.Predicate{Kind: predicates.KindSoundex, Field: f.Name},
		)
		for _, n := range samePrefixLengths {
			simple = append(simple, predicates.Predicate{Kind: predicates.KindSamePrefix, Field: f.Name, PrefixLen: n})
		}
		if idx.TFIDF != nil {
			for _, th := range tfidfThresholds {
				simple = append(simple, predicates.Predicate{Kind: predicates.KindTFIDFCanopy, Field: f.Name, Threshold: th})
			}
		}
	}

	pool := make([]predicates.Clause, 0, len(simple)+len(simple)*len(simple)/2)
	for _, p := range simple {
		pool = append(pool, predicates.Clause{p})
	}

	for i := 0; i < len(simple); i++ {
		for j := i + 1; j < len(simple); j++ {
			pool = append(pool, predicates.Clause{simple[i], simple[j]})
		}
	}

	return pool
}
