// Package strdist computes a normalized affine-gap edit distance between
// two strings, the default string comparator for erecon's data model.
package strdist

// Affine-gap parameters, fixed per spec: match is a bonus (negative
// cost), mismatch/gap-open/gap-extend are costs.
const (
	matchScore    = -5
	mismatchScore = 5
	gapOpen       = 4
	gapExtend     = 1
)

// Distance computes the normalized affine-gap distance between a and b,
// in [0,1]. Lower means more similar. Both empty => 0. Exactly one empty
// => 1. The function is symmetric and Distance(x, x) == 0 for all x.
func Distance(a, b string) float64 {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) == 0 && len(rb) == 0 {
			return 0
		}
		return 1
	}

	raw := affineGapCost(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	// Normalize by maxLen: shift by the best possible cost (every one of
	// maxLen positions a match) and divide by the spread between that and
	// every position mismatched, so identical strings map to 0 and a full
	// mismatch to 1. No alignment costs less than the best case or more
	// than the all-mismatch case, so the clamps below are only a guard.
	best := float64(maxLen) * matchScore
	worst := float64(maxLen) * mismatchScore
	if worst <= best {
		return 0
	}

	normalized := (raw - best) / (worst - best)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return normalized
}

// affineGapCost runs a Gotoh-style affine-gap dynamic program and returns
// the optimal (lowest-cost) alignment cost between ra and rb. Lower is
// more similar; the DP minimizes cost, where a match contributes a
// negative (rewarding) score via matchScore.
func affineGapCost(ra, rb []rune) float64 {
	n, m := len(ra), len(rb)

	const inf = 1e18

	// three matrices per Gotoh's algorithm: M (best ending in a match/mismatch),
	// X (best ending in a gap in ra), Y (best ending in a gap in rb).
	M := make([][]float64, n+1)
	X := make([][]float64, n+1)
	Y := make([][]float64, n+1)
	for i := range M {
		M[i] = make([]float64, m+1)
		X[i] = make([]float64, m+1)
		Y[i] = make([]float64, m+1)
	}

	M[0][0] = 0
	X[0][0] = inf
	Y[0][0] = inf

	for i := 1; i <= n; i++ {
		M[i][0] = inf
		X[i][0] = gapOpen + float64(i-1)*gapExtend
		Y[i][0] = inf
	}
	for j := 1; j <= m; j++ {
		M[0][j] = inf
		X[0][j] = inf
		Y[0][j] = gapOpen + float64(j-1)*gapExtend
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := mismatchScore
			if ra[i-1] == rb[j-1] {
				sub = matchScore
			}
			best := min3(M[i-1][j-1], X[i-1][j-1], Y[i-1][j-1])
			M[i][j] = best + float64(sub)

			X[i][j] = min2(
				M[i-1][j]+gapOpen,
				X[i-1][j]+gapExtend,
			)
			Y[i][j] = min2(
				M[i][j-1]+gapOpen,
				Y[i][j-1]+gapExtend,
			)
		}
	}

	return min3(M[n][m], X[n][m], Y[n][m])
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func min3(a, b, c float64) float64 {
	return min2(a, min2(b, c))
}
