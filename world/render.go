package world

import "strings"

// GridString renders the board row by row: CityGlyph for cities,
// DispenserGlyph for dispensers, EmptyGlyph elsewhere, each row ending in
// '\n'. It is a display projection only; the search never reads it.
// Complexity: O(W×H).
func (w *World) GridString() string {
	cells := make([]byte, w.bounds.Cells())
	for i := range cells {
		cells[i] = EmptyGlyph
	}
	for _, c := range w.cities {
		cells[w.bounds.Index(c)] = CityGlyph
	}
	for _, c := range w.dispensers {
		cells[w.bounds.Index(c)] = DispenserGlyph
	}

	var sb strings.Builder
	sb.Grow(w.bounds.Cells() + w.bounds.Height)
	var r int
	for r = 0; r < w.bounds.Height; r++ {
		sb.Write(cells[r*w.bounds.Width : (r+1)*w.bounds.Width])
		sb.WriteByte('\n')
	}
	return sb.String()
}
