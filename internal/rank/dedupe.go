package rank

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"easyapply-engine/internal/domain"
)

type identityKey struct {
	title, company, location, source string
}

func keyOf(p domain.JobPosting) identityKey {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return identityKey{norm(p.Title), norm(p.Company), norm(p.Location), norm(p.Source)}
}

// Ranker merges postings from several sources into a ranked shortlist.
type Ranker struct {
	Log *zap.Logger
}

// DedupeAndRank is Ranker.DedupeAndRank without logging.
func DedupeAndRank(postings []domain.JobPosting, limit int) []domain.JobPosting {
	return Ranker{}.DedupeAndRank(postings, limit)
}

// DedupeAndRank collapses duplicates (same title, company, location and
// source), drops zero scores, sorts by score descending keeping encounter
// order on ties, and returns at most limit postings.
func (r Ranker) DedupeAndRank(postings []domain.JobPosting, limit int) []domain.JobPosting {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	kept := make([]domain.JobPosting, 0, len(postings))
	index := make(map[identityKey]int, len(postings))

	for _, p := range postings {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Company) == "" {
			log.Warn("skipping malformed posting",
				zap.String("id", p.ID), zap.String("source", p.Source), zap.String("url", p.URL))
			continue
		}
		k := keyOf(p)
		i, dup := index[k]
		if !dup {
			index[k] = len(kept)
			kept = append(kept, p)
			continue
		}
		if shouldReplace(kept[i], p) {
			kept[i] = p
		}
	}

	kept = slices.DeleteFunc(kept, func(p domain.JobPosting) bool { return p.RelevanceScore <= 0 })
	slices.SortStableFunc(kept, func(a, b domain.JobPosting) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})

	if limit < 0 {
		limit = 0
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// shouldReplace prefers a higher score; on equal scores it prefers the
// longer URL (a proxy for a direct posting link) or any URL over none.
func shouldReplace(old, cand domain.JobPosting) bool {
	switch {
	case cand.RelevanceScore > old.RelevanceScore:
		return true
	case cand.RelevanceScore != old.RelevanceScore:
		return false
	case old.URL == "" && cand.URL != "":
		return true
	default:
		return cand.URL != old.URL && len(cand.URL) > len(old.URL)
	}
}
