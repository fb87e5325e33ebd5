package outfit

import "strings"

// Category is the wardrobe role an item can fill.
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryOuterwear Category = "outerwear"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
)

// ParseCategory normalizes a stored category value; ok is false for unknown roles.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case CategoryTop, CategoryBottom, CategoryOuterwear, CategoryShoes, CategoryAccessory:
		return c, true
	default:
		return "", false
	}
}

// WardrobeItem is a single garment owned by a user.
type WardrobeItem struct {
	ID         string   `json:"id"`
	UserID     string   `json:"-"`
	Name       string   `json:"name,omitempty"`
	Category   Category `json:"category"`
	Colors     []string `json:"colors,omitempty"`
	Season     string   `json:"season,omitempty"`
	Style      string   `json:"style,omitempty"`
	CustomTags []string `json:"customTags,omitempty"`
	Occasions  []string `json:"occasions,omitempty"`
}

// Combination binds wardrobe items to outfit roles. Top and Bottom are always set.
type Combination struct {
	ID        string
	Top       *WardrobeItem
	Bottom    *WardrobeItem
	Shoes     *WardrobeItem
	Outerwear *WardrobeItem
	Accessory *WardrobeItem
}

// Items returns the present items in role order.
func (c Combination) Items() []*WardrobeItem {
	items := make([]*WardrobeItem, 0, 5)
	for _, item := range []*WardrobeItem{c.Top, c.Bottom, c.Shoes, c.Outerwear, c.Accessory} {
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

// Tags collects styles, custom tags and occasion tags of the present items,
// lowercased and deduplicated in first-seen order.
func (c Combination) Tags() []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, 8)
	add := func(tag string) {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" {
			return
		}
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		tags = append(tags, clean)
	}
	for _, item := range c.Items() {
		add(item.Style)
		for _, tag := range item.CustomTags {
			add(tag)
		}
		for _, tag := range item.Occasions {
			add(tag)
		}
	}
	return tags
}

// ScoreBreakdown holds the five compatibility dimensions and their clamped total.
type ScoreBreakdown struct {
	ColorHarmony     int `json:"colorHarmony"`
	StyleConsistency int `json:"styleConsistency"`
	OccasionFit      int `json:"occasionFit"`
	SeasonFit        int `json:"seasonFit"`
	PreferenceBonus  int `json:"preferenceBonus"`
	Total            int `json:"total"`
}
