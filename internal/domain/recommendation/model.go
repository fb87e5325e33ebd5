package recommendation

import (
	"bytes"
	"encoding/json"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/ranking"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

// Outfit count bounds for the daily flow.
const (
	DefaultOutfitCount = 3
	MaxOutfitCount     = outfit.MaxCombinations
	// ColdThreshold is the temperature in °C below which outerwear is required.
	ColdThreshold = 15.0
)

// LocationInput accepts either a place name string or an object with
// optional coordinates.
type LocationInput struct {
	Name      string   `json:"name,omitempty" binding:"max=128"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UnmarshalJSON allows "location": "Seoul" as shorthand.
func (l *LocationInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*l = LocationInput{Name: name}
		return nil
	}
	type plain LocationInput
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*l = LocationInput(out)
	return nil
}

// Coordinates returns the explicit coordinates when both are present and valid.
func (l LocationInput) Coordinates() (weather.Coordinates, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return weather.Coordinates{}, false
	}
	point := weather.Coordinates{Latitude: *l.Latitude, Longitude: *l.Longitude}
	return point, point.Valid()
}

// DailyRequest is the input of the daily recommendation flow.
type DailyRequest struct {
	Date        string        `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Location    LocationInput `json:"location"`
	Occasion    string        `json:"occasion" binding:"max=32"`
	BodyType    string        `json:"bodyType,omitempty" binding:"max=32"`
	OutfitCount int           `json:"outfitCount" binding:"min=0,max=10"`
}

// OutfitItems lists the items of a recommended outfit by role.
type OutfitItems struct {
	Top       *outfit.WardrobeItem `json:"top"`
	Bottom    *outfit.WardrobeItem `json:"bottom"`
	Shoes     *outfit.WardrobeItem `json:"shoes,omitempty"`
	Outerwear *outfit.WardrobeItem `json:"outerwear,omitempty"`
	Accessory *outfit.WardrobeItem `json:"accessory,omitempty"`
}

// RecommendedOutfit is one scored and ranked combination.
type RecommendedOutfit struct {
	ID          string                `json:"id"`
	Items       OutfitItems           `json:"items"`
	Tags        []string              `json:"tags"`
	Score       int                   `json:"score"`
	Breakdown   outfit.ScoreBreakdown `json:"breakdown"`
	FinalScore  float64               `json:"finalScore"`
	Adjustments ranking.Adjustments   `json:"adjustments"`
	Reasons     ranking.Reasons       `json:"reasons"`
}

// SuggestedPurchase is a placeholder for a wardrobe role the user cannot fill.
type SuggestedPurchase struct {
	Role   outfit.Category `json:"role"`
	Reason string          `json:"reason"`
	Query  string          `json:"query"`
}

// DailyResponse is the outcome of the daily flow.
type DailyResponse struct {
	Date               string              `json:"date"`
	Location           weather.Location    `json:"location"`
	Occasion           string              `json:"occasion,omitempty"`
	Weather            weather.Snapshot    `json:"weather"`
	Outfits            []RecommendedOutfit `json:"outfits"`
	MissingRoles       []outfit.Category   `json:"missingRoles"`
	SuggestedPurchases []SuggestedPurchase `json:"suggestedPurchases"`
}

// RankRequest is the input of the rank flow.
type RankRequest struct {
	Outfits   []ranking.Outfit     `json:"outfits" binding:"required,min=1,max=200,dive"`
	UserPrefs *ranking.Preferences `json:"userPrefs"`
}

// Config tunes the orchestrator.
type Config struct {
	DefaultOutfitCount int
}
