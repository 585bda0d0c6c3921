// Package rank provides the fuzzy matchers behind the branch filter.
package rank

import (
	"fmt"
	"sort"
	"strings"

	fold "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/twig/internal/view"
)

// Names of the available rankers, as used in config and on the command line.
const (
	NameFuzzy = "fuzzy"
	NameFold  = "fold"
)

// Names lists every ranker name New accepts.
var Names = []string{NameFuzzy, NameFold}

// New returns the ranker registered under name. An empty name selects the
// default fuzzy ranker.
func New(name string) (view.Ranker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameFuzzy:
		return Fuzzy{}, nil
	case NameFold:
		return Fold{}, nil
	}
	return nil, fmt.Errorf("unknown ranker %q (expected one of %s)", name, strings.Join(Names, ", "))
}

// Fuzzy ranks with sahilm/fuzzy: subsequence matching that scores
// consecutive runs, word starts and separators ("/", "-", "_") higher.
type Fuzzy struct{}

// Rank implements view.Ranker.
func (Fuzzy) Rank(query string, names []string) []int {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, names)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// Fold ranks with lithammer/fuzzysearch, case-insensitive and
// unicode-normalised, ordered by Levenshtein distance. Ties keep listing order.
type Fold struct{}

// Rank implements view.Ranker.
func (Fold) Rank(query string, names []string) []int {
	if query == "" {
		return nil
	}
	ranks := fold.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}
