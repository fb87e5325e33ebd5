package outfit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func wardrobe(counts map[Category]int) []WardrobeItem {
	var items []WardrobeItem
	for _, category := range []Category{CategoryTop, CategoryBottom, CategoryShoes, CategoryOuterwear, CategoryAccessory} {
		for i := 0; i < counts[category]; i++ {
			items = append(items, WardrobeItem{ID: string(category) + "-" + string(rune('a'+i)), Category: category})
		}
	}
	return items
}

func TestGenerateColdWeatherWithoutOuterwear(t *testing.T) {
	items := wardrobe(map[Category]int{CategoryTop: 2, CategoryBottom: 2, CategoryShoes: 1})

	res := Generate(items, GenerateOptions{Count: 3, NeedOuterwear: true, Seed: 42})

	require.Equal(t, []Category{CategoryOuterwear}, res.MissingRoles)
	require.Len(t, res.Combinations, 3)
	require.Equal(t, 3, res.Attempts)
	for _, combo := range res.Combinations {
		require.Nil(t, combo.Outerwear)
		require.NotNil(t, combo.Top)
		require.NotNil(t, combo.Bottom)
		require.NotNil(t, combo.Shoes)
	}
}

func TestGenerateRequiresTopAndBottom(t *testing.T) {
	res := Generate(wardrobe(map[Category]int{CategoryBottom: 3, CategoryShoes: 1}), GenerateOptions{Count: 2})

	require.Empty(t, res.Combinations)
	require.Equal(t, []Category{CategoryTop}, res.MissingRoles)
	require.Zero(t, res.Attempts)
}

func TestGenerateRecordsMissingShoesAsGap(t *testing.T) {
	res := Generate(wardrobe(map[Category]int{CategoryTop: 1, CategoryBottom: 1}), GenerateOptions{Count: 5})

	require.Equal(t, []Category{CategoryShoes}, res.MissingRoles)
	require.Len(t, res.Combinations, 1)
	require.Equal(t, 1, res.Attempts)
	require.Nil(t, res.Combinations[0].Shoes)
}

func TestGenerateDistinctAndReproducible(t *testing.T) {
	items := wardrobe(map[Category]int{CategoryTop: 5, CategoryBottom: 4, CategoryShoes: 3, CategoryOuterwear: 2, CategoryAccessory: 2})
	opts := GenerateOptions{Count: 4, NeedOuterwear: true, Seed: 7}

	first := Generate(items, opts)
	second := Generate(items, opts)

	require.Empty(t, first.MissingRoles)
	require.Len(t, first.Combinations, 4)
	require.Equal(t, 4, first.Attempts)
	keys := make(map[string]struct{})
	for i, combo := range first.Combinations {
		key := CanonicalKey(combo)
		_, dup := keys[key]
		require.False(t, dup, "duplicate combination %s", key)
		keys[key] = struct{}{}
		require.NotNil(t, combo.Outerwear)
		require.NotEmpty(t, combo.ID)
		require.Equal(t, key, CanonicalKey(second.Combinations[i]))
		require.Equal(t, combo.ID, second.Combinations[i].ID)
	}
}

func TestGenerateFillsCountWheneverPairsAllow(t *testing.T) {
	tests := []struct {
		name  string
		items map[Category]int
		count int
		want  int
	}{
		{"one top three bottoms", map[Category]int{CategoryTop: 1, CategoryBottom: 3, CategoryShoes: 1}, 3, 3},
		{"two by two grid", map[Category]int{CategoryTop: 2, CategoryBottom: 2, CategoryShoes: 1}, 4, 4},
		{"grid smaller than count", map[Category]int{CategoryTop: 2, CategoryBottom: 3}, 10, 6},
		{"large wardrobe", map[Category]int{CategoryTop: 8, CategoryBottom: 6, CategoryShoes: 2}, 10, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := wardrobe(tc.items)
			for seed := uint64(0); seed < 1000; seed++ {
				res := Generate(items, GenerateOptions{Count: tc.count, Seed: seed})
				require.Len(t, res.Combinations, tc.want, "seed %d", seed)
				require.Equal(t, tc.want, res.Attempts, "seed %d", seed)
			}
		})
	}
}

func TestGenerateSeedChangesOrder(t *testing.T) {
	items := wardrobe(map[Category]int{CategoryTop: 6, CategoryBottom: 6})
	orders := make(map[string]struct{})
	for seed := uint64(1); seed <= 5; seed++ {
		res := Generate(items, GenerateOptions{Count: 3, Seed: seed})
		key := ""
		for _, combo := range res.Combinations {
			key += CanonicalKey(combo) + ";"
		}
		orders[key] = struct{}{}
	}
	require.Greater(t, len(orders), 1)
}

func TestGenerateIgnoresDuplicateAndUnknownItems(t *testing.T) {
	items := []WardrobeItem{
		{ID: "t1", Category: CategoryTop},
		{ID: "t1", Category: CategoryTop},
		{ID: "b1", Category: "Bottom"},
		{ID: "x1", Category: "hat"},
	}

	res := Generate(items, GenerateOptions{Count: 3})

	require.Len(t, res.Combinations, 1)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, "b1", res.Combinations[0].Bottom.ID)
}

func TestCanonicalKeyIgnoresSlotOrder(t *testing.T) {
	a := &WardrobeItem{ID: "a"}
	b := &WardrobeItem{ID: "b"}

	require.Equal(t, CanonicalKey(Combination{Top: a, Bottom: b}), CanonicalKey(Combination{Top: b, Bottom: a}))
	require.Equal(t, "-|-|-|a|b", CanonicalKey(Combination{Top: a, Bottom: b}))
	require.NotEqual(t, CanonicalKey(Combination{Top: a, Bottom: b}), CanonicalKey(Combination{Top: a, Bottom: b, Shoes: &WardrobeItem{ID: "s"}}))
}

func TestCombinationTags(t *testing.T) {
	combo := Combination{
		Top:    &WardrobeItem{Style: "Casual", CustomTags: []string{"cozy", " "}, Occasions: []string{"weekend"}},
		Bottom: &WardrobeItem{Style: "casual", CustomTags: []string{"Cozy", "denim"}},
	}
	require.Equal(t, []string{"casual", "cozy", "weekend", "denim"}, combo.Tags())
}
