// Package blocking learns a predicate disjunction from labeled pairs via
// greedy red-blue set cover: a single-pass, threshold-gated scoring loop
// over precomputed (coveredDupes, coveredNonDupes) sets per candidate,
// deterministic in iteration order.
package blocking

import (
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
)

// Config holds BlockingLearner's tunables.
type Config struct {
	// PairYieldCap rejects any candidate whose non-dupe coverage exceeds
	// PairYieldCap * C(sampleSize, 2). 1.0 means no rejection.
	PairYieldCap float64
	// UncoveredTolerance allows this many duplicate pairs to remain
	// uncovered when the greedy loop stops.
	UncoveredTolerance int
}

// DefaultConfig returns the library's default tunables.
func DefaultConfig() Config {
	return Config{PairYieldCap: 1.0, UncoveredTolerance: 1}
}

// Learner runs greedy red-blue set cover over a candidate predicate
// pool to find a disjunction covering labeled duplicates while
// minimizing non-duplicate coverage.
type Learner struct {
	Config Config
	Index  predicates.Index
}

// NewLearner builds a Learner with the given config.
func NewLearner(cfg Config, idx predicates.Index) *Learner {
	return &Learner{Config: cfg, Index: idx}
}

// candidate pairs a Clause with its precomputed coverage sets, computed
// once up front.
type candidate struct {
	clause         predicates.Clause
	coveredDupes   map[int]struct{} // index into the dupes slice
	coveredNonDups int              // count is sufficient; identity isn't needed for cost
}

// Learn selects a disjunction of clauses covering dupes (labeled
// duplicate pairs) while treating nonDupes (sample non-duplicate pairs)
// as obstacles. dm names the fields candidates are generated over; if
// l.Index.TFIDF is set, TF-IDF-threshold candidates are included too.
func (l *Learner) Learn(dm *model.DataModel, dupes, nonDupes []model.Pair) []predicates.Clause {
	pool := CandidatePool(dm, l.Index)

	sampleSize := len(dupes) + len(nonDupes)
	capacity := l.Config.PairYieldCap * pairCount(sampleSize)

	candidates := make([]*candidate, 0, len(pool))
	for _, clause := range pool {
		cd := coverage(clause, dupes, l.Index)
		cn := coverageCount(clause, nonDupes, l.Index)
		if l.Config.PairYieldCap < 1.0 && float64(cn) > capacity {
			continue
		}
		candidates = append(candidates, &candidate{clause: clause, coveredDupes: cd, coveredNonDups: cn})
	}

	uncovered := make(map[int]struct{}, len(dupes))
	for i := range dupes {
		uncovered[i] = struct{}{}
	}

	var selected []predicates.Clause
	for len(uncovered) > l.Config.UncoveredTolerance {
		best, benefit := pickBest(candidates, uncovered)
		if best == nil || benefit <= 0 {
			break
		}
		selected = append(selected, best.clause)
		for i := range best.coveredDupes {
			delete(uncovered, i)
		}
	}

	return flattenIDs(selected)
}

// pickBest returns the candidate minimizing cost/benefit (cost =
// non-dupe coverage, benefit = newly-covered dupes), breaking ties
// lexicographically on (predicate ID, field) via Clause.ID.
func pickBest(candidates []*candidate, uncovered map[int]struct{}) (*candidate, int) {
	var best *candidate
	bestRatio := -1.0
	var bestBenefit int

	for _, c := range candidates {
		benefit := 0
		for i := range c.coveredDupes {
			if _, ok := uncovered[i]; ok {
				benefit++
			}
		}
		if benefit <= 0 {
			continue
		}
		ratio := float64(c.coveredNonDups) / float64(benefit)
		if best == nil || ratio < bestRatio || (ratio == bestRatio && c.clause.ID() < best.clause.ID()) {
			best = c
			bestRatio = ratio
			bestBenefit = benefit
		}
	}
	return best, bestBenefit
}

func coverage(clause predicates.Clause, dupes []model.Pair, idx predicates.Index) map[int]struct{} {
	out := make(map[int]struct{})
	for i, pair := range dupes {
		if shareKey(clause, pair, idx) {
			out[i] = struct{}{}
		}
	}
	return out
}

func coverageCount(clause predicates.Clause, pairs []model.Pair, idx predicates.Index) int {
	count := 0
	for _, pair := range pairs {
		if shareKey(clause, pair, idx) {
			count++
		}
	}
	return count
}

func shareKey(clause predicates.Clause, pair model.Pair, idx predicates.Index) bool {
	aKeys := predicates.ClauseKeys(clause, pair.A, idx)
	if len(aKeys) == 0 {
		return false
	}
	bKeys := predicates.ClauseKeys(clause, pair.B, idx)
	if len(bKeys) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(aKeys))
	for _, k := range aKeys {
		seen[string(k)] = struct{}{}
	}
	for _, k := range bKeys {
		if _, ok := seen[string(k)]; ok {
			return true
		}
	}
	return false
}

func pairCount(n int) float64 {
	return float64(n*(n-1)) / 2
}

// keyedClause pairs a selected Clause with its first member predicate,
// the key flattenIDs sorts candidates by.
type keyedClause struct {
	clause predicates.Clause
	p      predicates.Predicate
}

// flattenIDs orders selected Clauses by their first member predicate's
// (ID, Field), matching SortDisjunction's tie-break rule. Single-member
// Clauses sort exactly as SortDisjunction would sort the bare predicate.
func flattenIDs(clauses []predicates.Clause) []predicates.Clause {
	ks := make([]keyedClause, len(clauses))
	firsts := make([]predicates.Predicate, len(clauses))
	for i, c := range clauses {
		ks[i] = keyedClause{clause: c, p: c[0]}
		firsts[i] = c[0]
	}

	ordered := predicates.SortDisjunction(firsts)
	out := make([]predicates.Clause, 0, len(clauses))
	used := make([]bool, len(ks))
	for _, p := range ordered {
		for i, k := range ks {
			if !used[i] && k.p == p {
				out = append(out, k.clause)
				used[i] = true
				break
			}
		}
	}
	return out
}
