package outfit

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MaxCombinations bounds a single generation request.
const MaxCombinations = 10

const emptySlot = "-"

// combinationNamespace scopes deterministic combination IDs derived from canonical keys.
var combinationNamespace = uuid.MustParse("6f0b8a52-3d4c-4d8e-9a57-0c2b7f1e4a90")

// GenerateOptions controls combination generation.
type GenerateOptions struct {
	Count         int
	NeedOuterwear bool
	// Seed makes sampling reproducible; the same seed and items yield the same combinations.
	Seed uint64
}

// GenerateResult carries the distinct combinations and any role that could not be filled.
type GenerateResult struct {
	Combinations []Combination
	MissingRoles []Category
	Attempts     int
}

type partition struct {
	tops        []*WardrobeItem
	bottoms     []*WardrobeItem
	shoes       []*WardrobeItem
	outerwear   []*WardrobeItem
	accessories []*WardrobeItem
}

// Generate samples role-bound combinations from the given items.
// Top/bottom pairs are visited in a seeded random order without repeats, so the
// result holds min(Count, |tops|*|bottoms|) combinations. Attempts are capped at
// min(Count*3, |tops|*|bottoms|).
func Generate(items []WardrobeItem, opts GenerateOptions) GenerateResult {
	count := opts.Count
	if count <= 0 {
		count = 1
	}
	if count > MaxCombinations {
		count = MaxCombinations
	}

	parts := partitionItems(items)
	result := GenerateResult{MissingRoles: missingRoles(parts, opts.NeedOuterwear)}
	if len(parts.tops) == 0 || len(parts.bottoms) == 0 {
		return result
	}

	grid := len(parts.tops) * len(parts.bottoms)
	maxAttempts := min(count*3, grid)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	// each attempt takes the next unvisited top/bottom cell
	cells := rng.Perm(grid)
	seen := make(map[string]struct{}, count)
	combos := make([]Combination, 0, count)

	for attempt := 0; attempt < maxAttempts && len(combos) < count; attempt++ {
		result.Attempts++
		cell := cells[attempt]
		combo := Combination{
			Top:    parts.tops[cell/len(parts.bottoms)],
			Bottom: parts.bottoms[cell%len(parts.bottoms)],
		}
		if len(parts.shoes) > 0 {
			combo.Shoes = parts.shoes[rng.IntN(len(parts.shoes))]
		}
		if opts.NeedOuterwear && len(parts.outerwear) > 0 {
			combo.Outerwear = parts.outerwear[rng.IntN(len(parts.outerwear))]
		}
		if len(parts.accessories) > 0 {
			// one extra slot leaves the accessory out
			if idx := rng.IntN(len(parts.accessories) + 1); idx < len(parts.accessories) {
				combo.Accessory = parts.accessories[idx]
			}
		}

		key := CanonicalKey(combo)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		combo.ID = uuid.NewSHA1(combinationNamespace, []byte(key)).String()
		combos = append(combos, combo)
	}

	result.Combinations = combos
	return result
}

// CanonicalKey identifies a combination independent of slot order.
func CanonicalKey(c Combination) string {
	ids := []string{slotID(c.Top), slotID(c.Bottom), slotID(c.Shoes), slotID(c.Outerwear), slotID(c.Accessory)}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func slotID(item *WardrobeItem) string {
	if item == nil || item.ID == "" {
		return emptySlot
	}
	return item.ID
}

func partitionItems(items []WardrobeItem) partition {
	var parts partition
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		item := &items[i]
		if item.ID != "" {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
		}
		category, ok := ParseCategory(string(item.Category))
		if !ok {
			continue
		}
		switch category {
		case CategoryTop:
			parts.tops = append(parts.tops, item)
		case CategoryBottom:
			parts.bottoms = append(parts.bottoms, item)
		case CategoryShoes:
			parts.shoes = append(parts.shoes, item)
		case CategoryOuterwear:
			parts.outerwear = append(parts.outerwear, item)
		case CategoryAccessory:
			parts.accessories = append(parts.accessories, item)
		}
	}
	return parts
}

func missingRoles(parts partition, needOuterwear bool) []Category {
	missing := make([]Category, 0, 4)
	if len(parts.tops) == 0 {
		missing = append(missing, CategoryTop)
	}
	if len(parts.bottoms) == 0 {
		missing = append(missing, CategoryBottom)
	}
	if len(parts.shoes) == 0 {
		missing = append(missing, CategoryShoes)
	}
	if needOuterwear && len(parts.outerwear) == 0 {
		missing = append(missing, CategoryOuterwear)
	}
	return missing
}
