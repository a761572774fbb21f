package board

// Pure transforms over card and column sequences. No I/O and no hidden
// state: callers get a new sequence and decide what to do with it.

func indexOfCard(cards []*Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfColumn(columns []*Column, id string) int {
	for i, c := range columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// MoveCard reassigns a card to targetColumnID and splices it into the global
// sequence. targetIndex addresses the destination column's visible list, not
// the global sequence; nil or an out-of-range index appends to the end. An
// unknown cardID returns the input unchanged.
func MoveCard(cards []*Card, cardID, targetColumnID string, targetIndex *int) []*Card {
	idx := indexOfCard(cards, cardID)
	if idx == -1 {
		return cards
	}

	moved := *cards[idx]
	moved.ColumnID = targetColumnID

	rest := make([]*Card, 0, len(cards))
	rest = append(rest, cards[:idx]...)
	rest = append(rest, cards[idx+1:]...)

	if targetIndex == nil {
		return append(rest, &moved)
	}

	// Global positions of the destination column's cards, after removal of
	// the moved card and before its reinsertion.
	var positions []int
	for i, c := range rest {
		if c.ColumnID == targetColumnID {
			positions = append(positions, i)
		}
	}

	if *targetIndex < 0 || *targetIndex >= len(positions) {
		return append(rest, &moved)
	}

	at := positions[*targetIndex]
	out := make([]*Card, 0, len(cards))
	out = append(out, rest[:at]...)
	out = append(out, &moved)
	out = append(out, rest[at:]...)
	return out
}

// MoveColumn removes draggedID and reinserts it at the position targetID
// held before the removal, then renumbers Order to the dense 0..n-1
// sequence. Only columns whose index actually changed are replaced, so
// unchanged ones keep their identity for downstream diffing. Unknown or
// equal ids return the input unchanged.
func MoveColumn(columns []*Column, draggedID, targetID string) []*Column {
	from := indexOfColumn(columns, draggedID)
	to := indexOfColumn(columns, targetID)
	if from == -1 || to == -1 || from == to {
		return columns
	}

	spliced := make([]*Column, 0, len(columns))
	spliced = append(spliced, columns[:from]...)
	spliced = append(spliced, columns[from+1:]...)

	out := make([]*Column, 0, len(columns))
	out = append(out, spliced[:to]...)
	out = append(out, columns[from])
	out = append(out, spliced[to:]...)

	for i, col := range out {
		if col.Order != i {
			cp := *col
			cp.Order = i
			out[i] = &cp
		}
	}
	return out
}

// CascadeDeleteColumn removes the column and every card referencing it in
// one computation, so no intermediate state with orphaned cards ever exists.
func CascadeDeleteColumn(columns []*Column, cards []*Card, columnID string) ([]*Column, []*Card) {
	newColumns := make([]*Column, 0, len(columns))
	for _, c := range columns {
		if c.ID != columnID {
			newColumns = append(newColumns, c)
		}
	}

	newCards := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if c.ColumnID != columnID {
			newCards = append(newCards, c)
		}
	}

	return newColumns, newCards
}
