package ranking

// Input bounds accepted by Rank callers.
const (
	MaxOutfits        = 200
	MaxTagsPerOutfit  = 50
	MaxPreferenceTags = 50
)

// Outfit is a pre-scored candidate with a normalized base score.
type Outfit struct {
	ID    string   `json:"id" binding:"required,max=128"`
	Score float64  `json:"score" binding:"min=0,max=1"`
	Tags  []string `json:"tags" binding:"max=50,dive,max=64"`
}

// Preferences are the caller's preferred and blacklisted tags.
type Preferences struct {
	PreferredTags []string `json:"preferredTags" binding:"max=50,dive,max=64"`
	BlacklistTags []string `json:"blacklistTags" binding:"max=50,dive,max=64"`
}

// Adjustments are both non-negative; the penalty is subtracted.
type Adjustments struct {
	PreferenceBoost  float64 `json:"preferenceBoost"`
	BlacklistPenalty float64 `json:"blacklistPenalty"`
}

// Reasons lists the exact tags that produced the adjustments.
type Reasons struct {
	PreferredMatched []string `json:"preferredMatched"`
	BlacklistMatched []string `json:"blacklistMatched"`
}

// Result is a ranked outfit with its explanation.
type Result struct {
	ID          string      `json:"id"`
	BaseScore   float64     `json:"baseScore"`
	Adjustments Adjustments `json:"adjustments"`
	FinalScore  float64     `json:"finalScore"`
	Reasons     Reasons     `json:"reasons"`
}
