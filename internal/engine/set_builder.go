package engine

import (
	"math/rand"

	"kidquiz-engine/internal/domain"
)

// BuildQuestionSet assembles the ordered question sequence for one session:
// each package keeps creation order or is shuffled per its order flag, the
// per-package lists are concatenated, duplicates are removed by question id
// (first occurrence wins), malformed questions are dropped, and the combined
// list is shuffled once more. The caller seeds rng; tests pass a fixed seed.
func BuildQuestionSet(packages []domain.PackageQuestions, rng *rand.Rand) []domain.Question {
	combined := make([]domain.Question, 0)
	for _, pkg := range packages {
		qs := make([]domain.Question, len(pkg.Questions))
		copy(qs, pkg.Questions)
		if pkg.Package.Order == domain.OrderShuffle {
			rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		}
		combined = append(combined, qs...)
	}

	seen := make(map[string]struct{}, len(combined))
	set := combined[:0]
	for _, q := range combined {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		if !q.Valid() {
			continue
		}
		set = append(set, q)
	}

	rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
	return set
}
