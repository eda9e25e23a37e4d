package badge

import (
	"sort"

	"nthora.app/server/internal/model"
)

// Earned pairs a catalog entry with when the user earned it.
type Earned struct {
	Def      model.BadgeDef `json:"def"`
	EarnedAt int64          `json:"earned_at"` // unix seconds
}

// Candidate pairs an unearned catalog entry with its progress.
type Candidate struct {
	Def      model.BadgeDef      `json:"def"`
	Progress model.BadgeProgress `json:"progress"`
}

// Summary is the full badge view for one user.
type Summary struct {
	RecentlyEarned []Earned    `json:"recently_earned"`
	NextToEarn     []Candidate `json:"next_to_earn"`
	Recommended    []Candidate `json:"recommended"`
}

// Classify computes the badge view from a stats snapshot, the earned rows
// and the user's declared categories. Pure: no I/O, no clock.
func Classify(stats model.UserStats, earned []model.EarnedBadge, categories []string, capN int) Summary {
	if capN <= 0 {
		capN = 3
	}

	earnedAt := make(map[string]int64, len(earned))
	for _, e := range earned {
		earnedAt[e.BadgeID] = e.EarnedAt.Unix()
	}

	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[c] = struct{}{}
	}

	var recent []Earned
	var unearned []Candidate
	var recommended []Candidate

	for _, def := range Catalog {
		if at, ok := earnedAt[def.ID]; ok {
			recent = append(recent, Earned{Def: def, EarnedAt: at})
			continue
		}

		cand := Candidate{Def: def, Progress: Progress(def, stats)}
		unearned = append(unearned, cand)
		if _, ok := catSet[def.Category]; ok {
			recommended = append(recommended, cand)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].EarnedAt > recent[j].EarnedAt
	})
	sort.SliceStable(unearned, func(i, j int) bool {
		return unearned[i].Progress.Percentage > unearned[j].Progress.Percentage
	})

	if len(recent) > capN {
		recent = recent[:capN]
	}
	if len(unearned) > capN {
		unearned = unearned[:capN]
	}

	return Summary{
		RecentlyEarned: recent,
		NextToEarn:     unearned,
		Recommended:    recommended,
	}
}

// Progress reports how far a stats snapshot is toward a badge requirement.
func Progress(def model.BadgeDef, stats model.UserStats) model.BadgeProgress {
	current := stats.Metric(def.Metric)
	if current > def.Target {
		current = def.Target
	}

	pct := 0.0
	if def.Target > 0 {
		pct = float64(current) / float64(def.Target) * 100
	}

	return model.BadgeProgress{
		Current:    current,
		Target:     def.Target,
		Percentage: pct,
	}
}

// NewlyMet returns the catalog entries whose requirement the snapshot
// satisfies but the earned set does not yet contain. The worker awards these.
func NewlyMet(stats model.UserStats, earned []model.EarnedBadge) []model.BadgeDef {
	have := make(map[string]struct{}, len(earned))
	for _, e := range earned {
		have[e.BadgeID] = struct{}{}
	}

	var met []model.BadgeDef
	for _, def := range Catalog {
		if _, ok := have[def.ID]; ok {
			continue
		}
		if stats.Metric(def.Metric) >= def.Target {
			met = append(met, def)
		}
	}
	return met
}
