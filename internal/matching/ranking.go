package matching

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/profile"
)

// Ranking is the ordered outcome of scoring a whole catalog.
type Ranking struct {
	Best      *Result  `json:"best,omitempty"`
	RunnersUp []Result `json:"runners_up"`
	All       []Result `json:"all"`
}

// Found reports whether any dog was ranked.
func (r Ranking) Found() bool {
	return r.Best != nil
}

// Rank scores every dog and orders them by score, highest first. Ties keep catalog order.
func (e *Engine) Rank(dogs []*catalog.Dog, p *profile.Profile) Ranking {
	all := make([]Result, 0, len(dogs))
	for _, dog := range dogs {
		if dog == nil {
			continue
		}
		all = append(all, e.Score(dog, p))
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	ranking := Ranking{RunnersUp: []Result{}, All: all}
	if len(all) == 0 {
		return ranking
	}

	best := all[0]
	ranking.Best = &best

	end := 1 + e.runnersUp
	if end > len(all) {
		end = len(all)
	}
	ranking.RunnersUp = append(ranking.RunnersUp, all[1:end]...)

	return ranking
}

// DumpToTmpFile writes the ranking as indented JSON into a new temp file and returns its name.
func (r Ranking) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "dang-matcher_ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
