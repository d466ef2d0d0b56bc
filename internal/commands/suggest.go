package commands

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestDistance = 2

// Suggest returns the candidates within a small edit distance of word,
// closest first.
func Suggest(word string, candidates []string) []string {
	type scored struct {
		word string
		dist int
	}

	var near []scored
	for _, c := range candidates {
		// Single letters are aliases; suggesting them is noise.
		if len(c) < 2 || c == word {
			continue
		}
		if d := levenshtein.ComputeDistance(word, c); d <= maxSuggestDistance {
			near = append(near, scored{word: c, dist: d})
		}
	}

	sort.SliceStable(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].word < near[j].word
	})

	out := make([]string, 0, len(near))
	for _, n := range near {
		out = append(out, n.word)
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
