package game

// Breakdown is the arithmetic behind a score.
type Breakdown struct {
	Base       int `json:"base"`
	WordFactor int `json:"wordFactor"`
	Total      int `json:"total"`
}

// ScoreBreakdown scores the word on the board. Letter multipliers scale
// the tile on their square; word multipliers stack multiplicatively
// across the word. A board with no word or a gap scores zero.
func ScoreBreakdown(b *Board) Breakdown {
	ex := ExtractWord(b)
	if ex.Kind != Word {
		return Breakdown{WordFactor: 1}
	}

	base, factor := 0, 1
	for i := ex.First; i <= ex.Last; i++ {
		sq := b.squares[i]
		base += sq.Occupant.Points * sq.Multiplier.LetterFactor()
		factor *= sq.Multiplier.WordFactor()
	}
	return Breakdown{Base: base, WordFactor: factor, Total: base * factor}
}

// Score returns just the total.
func Score(b *Board) int { return ScoreBreakdown(b).Total }
