package roster

// PositionUpdate is one row whose stored position must change.
type PositionUpdate struct {
	Kind     Kind
	ID       uint
	Position int
}

// Renumber assigns positions 1..K to the ordered occupants and returns only
// the rows whose stored position differs. A dense roster yields nothing.
func Renumber(ordered []Occupant) []PositionUpdate {
	var updates []PositionUpdate
	for idx, o := range ordered {
		want := idx + 1
		if o.Position == want {
			continue
		}
		updates = append(updates, PositionUpdate{Kind: o.Kind, ID: o.ID, Position: want})
	}
	return updates
}

// NextPosition is the position for a row appended to the end of a roster
// whose current highest position is maxPosition.
func NextPosition(maxPosition int) int {
	if maxPosition < 0 {
		maxPosition = 0
	}
	return maxPosition + 1
}
