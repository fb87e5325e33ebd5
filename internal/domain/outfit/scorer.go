package outfit

import (
	"math"
	"strings"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

// Dimension caps.
const (
	maxColorHarmony     = 30
	maxStyleConsistency = 25
	maxOccasionFit      = 20
	maxSeasonFit        = 15
	maxPreferenceBonus  = 10
	maxTotal            = 100

	rawColorMax = 40.0
)

var neutralColors = map[string]struct{}{
	"black": {},
	"white": {},
	"gray":  {},
	"grey":  {},
}

var occasionStyles = map[string][]string{
	"casual": {"casual", "sporty"},
	"formal": {"formal", "minimalist"},
	"party":  {"boho", "vintage"},
}

// ScoreContext carries the optional inputs of the compatibility score.
type ScoreContext struct {
	Occasion       string
	Weather        *weather.Snapshot
	PreferenceTags []string
}

// Score returns the compatibility score of a combination in [0,100].
func Score(c Combination, sc ScoreContext) int {
	return ScoreBreakdownFor(c, sc).Total
}

// ScoreBreakdownFor computes every dimension independently; missing item
// fields never match and never fail.
func ScoreBreakdownFor(c Combination, sc ScoreContext) ScoreBreakdown {
	items := c.Items()
	b := ScoreBreakdown{
		ColorHarmony:     colorHarmony(c, items),
		StyleConsistency: styleConsistency(items),
		OccasionFit:      occasionFit(items, sc.Occasion),
		SeasonFit:        seasonFit(items, sc.Weather),
		PreferenceBonus:  preferenceBonus(items, sc.PreferenceTags),
	}
	total := b.ColorHarmony + b.StyleConsistency + b.OccasionFit + b.SeasonFit + b.PreferenceBonus
	b.Total = clampInt(total, 0, maxTotal)
	return b
}

func colorHarmony(c Combination, items []*WardrobeItem) int {
	distinct := make(map[string]struct{})
	for _, item := range items {
		for _, color := range item.Colors {
			if key := normalize(color); key != "" {
				distinct[key] = struct{}{}
			}
		}
	}

	raw := 0.0
	if len(distinct) > 0 && len(distinct) <= 3 {
		raw += 10
	}
	for color := range distinct {
		if _, ok := neutralColors[color]; ok {
			raw += 15
			break
		}
	}
	if sharesColor(c.Top, c.Bottom) {
		raw += 15
	}

	scaled := math.Round(raw / rawColorMax * maxColorHarmony)
	return clampInt(int(scaled), 0, maxColorHarmony)
}

func sharesColor(a, b *WardrobeItem) bool {
	if a == nil || b == nil {
		return false
	}
	colors := make(map[string]struct{}, len(a.Colors))
	for _, color := range a.Colors {
		if key := normalize(color); key != "" {
			colors[key] = struct{}{}
		}
	}
	for _, color := range b.Colors {
		if _, ok := colors[normalize(color)]; ok {
			return true
		}
	}
	return false
}

type styleProfile struct {
	items    int
	unstyled int
	counts   map[string]int
}

func (p styleProfile) distinct() int {
	return len(p.counts) + p.unstyled
}

type styleRule struct {
	name  string
	score int
	match func(p styleProfile) bool
}

// styleRules are evaluated in order; the first match wins. The generic shared
// style rule precedes the harmonious pair rule even though the pair rule scores
// lower. An unstyled item matches nothing, so it counts as one more distinct style.
var styleRules = []styleRule{
	{
		name:  "single_style",
		score: maxStyleConsistency,
		match: func(p styleProfile) bool {
			return p.items > 0 && p.unstyled == 0 && len(p.counts) == 1
		},
	},
	{
		name:  "shared_style",
		score: 15,
		match: func(p styleProfile) bool {
			if p.distinct() != 2 {
				return false
			}
			for _, n := range p.counts {
				if n >= 2 {
					return true
				}
			}
			return false
		},
	},
	{
		name:  "harmonious_pair",
		score: 10,
		match: func(p styleProfile) bool {
			if p.distinct() != 2 || p.unstyled > 0 {
				return false
			}
			_, casual := p.counts["casual"]
			_, sporty := p.counts["sporty"]
			_, formal := p.counts["formal"]
			_, minimalist := p.counts["minimalist"]
			return (casual && sporty) || (formal && minimalist)
		},
	},
}

func styleConsistency(items []*WardrobeItem) int {
	profile := styleProfile{items: len(items), counts: make(map[string]int)}
	for _, item := range items {
		style := normalize(item.Style)
		if style == "" {
			profile.unstyled++
			continue
		}
		profile.counts[style]++
	}
	for _, rule := range styleRules {
		if rule.match(profile) {
			return rule.score
		}
	}
	return 0
}

func occasionFit(items []*WardrobeItem, occasion string) int {
	occasion = normalize(occasion)
	if occasion == "" {
		return maxOccasionFit / 2
	}
	if len(items) == 0 {
		return 0
	}
	compatible, ok := occasionStyles[occasion]
	if !ok {
		compatible = []string{occasion}
	}
	matched := 0
	for _, item := range items {
		if containsString(compatible, normalize(item.Style)) {
			matched++
		}
	}
	return tieredScore(float64(matched)/float64(len(items)), maxOccasionFit, 10, 0)
}

func seasonFit(items []*WardrobeItem, snapshot *weather.Snapshot) int {
	if snapshot == nil {
		return 8
	}
	if len(items) == 0 {
		return 5
	}
	band := seasonsFor(snapshot.Temperature)
	matched := 0
	for _, item := range items {
		season := normalizeSeason(item.Season)
		if season == "all-season" || containsString(band, season) {
			matched++
		}
	}
	return tieredScore(float64(matched)/float64(len(items)), maxSeasonFit, 10, 5)
}

// SeasonBand names the season that best matches a temperature.
func SeasonBand(celsius float64) string {
	return seasonsFor(celsius)[0]
}

func seasonsFor(celsius float64) []string {
	switch {
	case celsius > 22:
		return []string{"summer", "spring"}
	case celsius >= 15:
		return []string{"spring", "autumn"}
	default:
		return []string{"winter", "autumn"}
	}
}

func preferenceBonus(items []*WardrobeItem, preferenceTags []string) int {
	if len(preferenceTags) == 0 {
		return 0
	}
	prefs := make(map[string]struct{}, len(preferenceTags))
	for _, tag := range preferenceTags {
		if key := normalize(tag); key != "" {
			prefs[key] = struct{}{}
		}
	}
	bonus := 0
	for _, item := range items {
		if itemMatchesPreference(item, prefs) {
			bonus += 5
		}
		if bonus >= maxPreferenceBonus {
			return maxPreferenceBonus
		}
	}
	return bonus
}

func itemMatchesPreference(item *WardrobeItem, prefs map[string]struct{}) bool {
	if style := normalize(item.Style); style != "" {
		if _, ok := prefs[style]; ok {
			return true
		}
	}
	for _, tag := range item.CustomTags {
		if _, ok := prefs[normalize(tag)]; ok {
			return true
		}
	}
	return false
}

func tieredScore(fraction float64, high, mid, low int) int {
	switch {
	case fraction >= 0.75:
		return high
	case fraction >= 0.5:
		return mid
	default:
		return low
	}
}

func normalizeSeason(raw string) string {
	switch season := normalize(raw); season {
	case "fall":
		return "autumn"
	case "all", "allseason", "all_season", "all season":
		return "all-season"
	default:
		return season
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
