package roster

// Slot is one player's place: overall rank plus the rank inside their tier.
type Slot struct {
	Kind    Tier `json:"kind"`
	Overall int  `json:"overall"`
	Within  int  `json:"within"`
	Limit   int  `json:"limit"`
}

// SlotAt classifies the given 1-based overall rank against limit.
func SlotAt(overall, limit int) Slot {
	if limit < 0 {
		limit = 0
	}
	if overall <= limit {
		return Slot{Kind: TierPlaying, Overall: overall, Within: overall, Limit: limit}
	}
	return Slot{Kind: TierWaitlist, Overall: overall, Within: overall - limit, Limit: limit}
}
