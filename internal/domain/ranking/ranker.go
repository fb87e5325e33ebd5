package ranking

import (
	"math"
	"sort"
	"strings"
)

// Per-tag adjustment steps.
const (
	BoostPerTag   = 0.1
	PenaltyPerTag = 0.2
)

// Rank applies preference boosts and blacklist penalties and orders outfits by
// final score descending. Equal scores keep their input order.
func Rank(outfits []Outfit, prefs *Preferences) []Result {
	var preferred, blacklist map[string]struct{}
	if prefs != nil {
		preferred = tagSet(prefs.PreferredTags)
		blacklist = tagSet(prefs.BlacklistTags)
	}

	results := make([]Result, 0, len(outfits))
	for _, o := range outfits {
		results = append(results, rankOne(o, preferred, blacklist))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

func rankOne(o Outfit, preferred, blacklist map[string]struct{}) Result {
	base := clamp01(o.Score)
	reasons := Reasons{PreferredMatched: []string{}, BlacklistMatched: []string{}}

	seen := make(map[string]struct{}, len(o.Tags))
	for _, raw := range o.Tags {
		tag := normalizeTag(raw)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := preferred[tag]; ok {
			reasons.PreferredMatched = append(reasons.PreferredMatched, tag)
		}
		if _, ok := blacklist[tag]; ok {
			reasons.BlacklistMatched = append(reasons.BlacklistMatched, tag)
		}
	}

	adj := Adjustments{
		PreferenceBoost:  round4(BoostPerTag * float64(len(reasons.PreferredMatched))),
		BlacklistPenalty: round4(PenaltyPerTag * float64(len(reasons.BlacklistMatched))),
	}
	return Result{
		ID:          o.ID,
		BaseScore:   base,
		Adjustments: adj,
		FinalScore:  clamp01(base + adj.PreferenceBoost - adj.BlacklistPenalty),
		Reasons:     reasons,
	}
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if clean := normalizeTag(tag); clean != "" {
			set[clean] = struct{}{}
		}
	}
	return set
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round4 keeps float noise such as 0.30000000000000004 out of adjustments.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
