package nodes

import (
	"sort"
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns the palette kinds matching query, best match first. An
// empty query returns every palette kind in registration order.
func Search(query string) []*core.KindInfo {
	var palette []*core.KindInfo
	for _, info := range Registry().All() {
		if !info.Hidden {
			palette = append(palette, info)
		}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return palette
	}

	type match struct {
		info *core.KindInfo
		rank int
	}
	var matches []match
	for _, info := range palette {
		rank := -1
		for _, target := range []string{info.Title, string(info.Kind), info.Description} {
			if r := fuzzy.RankMatchNormalizedFold(query, target); r >= 0 && (rank < 0 || r < rank) {
				rank = r
			}
		}
		if rank >= 0 {
			matches = append(matches, match{info: info, rank: rank})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	res := make([]*core.KindInfo, len(matches))
	for i, m := range matches {
		res[i] = m.info
	}
	return res
}
