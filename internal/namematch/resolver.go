package namematch

import (
	"sort"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Resolver maps a raw name from an external source to a known canonical
// entity key. The second return is false when no acceptable match exists.
type Resolver interface {
	Resolve(raw string) (string, bool)
}

// UnmatchedName is the diagnostic record for a name that failed resolution.
type UnmatchedName struct {
	Name             string
	NearestCandidate string
	Similarity       float64
}

// FuzzyResolver resolves names exact-match-first, then by best normalized
// edit similarity against the known key set, accepting the single best
// candidate only above the configured threshold. Unmatched names are
// collected for a human-readable diagnostic dump; they are never silently
// discarded.
type FuzzyResolver struct {
	known     []string
	knownSet  map[string]struct{}
	threshold float64
	hits      *cache.Cache
	log       *logrus.Logger

	mu        sync.Mutex
	unmatched map[string]UnmatchedName
}

// NewFuzzyResolver builds a resolver over the historical canonical key set.
func NewFuzzyResolver(known []string, threshold float64, ttl time.Duration, log *logrus.Logger) *FuzzyResolver {
	keys := make([]string, len(known))
	copy(keys, known)
	sort.Strings(keys)

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return &FuzzyResolver{
		known:     keys,
		knownSet:  set,
		threshold: threshold,
		hits:      cache.New(ttl, 2*ttl),
		log:       log,
		unmatched: make(map[string]UnmatchedName),
	}
}

// Resolve canonicalizes raw and looks it up. Fuzzy results are memoized:
// props feeds repeat the same handful of spellings, and each miss costs a
// full scan of the key set.
func (r *FuzzyResolver) Resolve(raw string) (string, bool) {
	name := Normalize(raw)
	if name == "" {
		return "", false
	}

	if _, ok := r.knownSet[name]; ok {
		return name, true
	}

	if cached, ok := r.hits.Get(name); ok {
		return cached.(string), true
	}

	best, score := r.nearest(name)
	if best != "" && score > r.threshold {
		r.log.WithFields(logrus.Fields{
			"name":       name,
			"matched_to": best,
			"similarity": score,
		}).Debug("Accepted fuzzy name match")
		r.hits.Set(name, best, cache.DefaultExpiration)
		return best, true
	}

	r.mu.Lock()
	r.unmatched[name] = UnmatchedName{Name: name, NearestCandidate: best, Similarity: score}
	r.mu.Unlock()
	return "", false
}

// Unmatched returns the names that failed resolution, sorted for stable
// diagnostics.
func (r *FuzzyResolver) Unmatched() []UnmatchedName {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]UnmatchedName, 0, len(r.unmatched))
	for _, u := range r.unmatched {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LogUnmatched emits the review listing for names that never resolved.
func (r *FuzzyResolver) LogUnmatched() {
	for _, u := range r.Unmatched() {
		r.log.WithFields(logrus.Fields{
			"name":       u.Name,
			"nearest":    u.NearestCandidate,
			"similarity": u.Similarity,
		}).Warn("Unmatched player name")
	}
}

func (r *FuzzyResolver) nearest(name string) (string, float64) {
	best := ""
	bestScore := -1.0
	for _, candidate := range r.known {
		if s := Similarity(name, candidate); s > bestScore {
			best, bestScore = candidate, s
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}

// Similarity returns normalized edit similarity in [0, 1]: 1 minus the
// Levenshtein distance over the longer length.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a two-row matrix.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
