package romaji

// Segment splits source into graphemes by longest-first table lookup.
// Characters with no table entry become single-rune segments, so joining the
// result always reproduces source.
func (t *Table) Segment(source string) []string {
	runes := []rune(source)
	segments := make([]string, 0, len(runes))
	for i := 0; i < len(runes); {
		size := 1
		for n := min(t.maxKeyLen, len(runes)-i); n > 1; n-- {
			if _, ok := t.entries[string(runes[i:i+n])]; ok {
				size = n
				break
			}
		}
		segments = append(segments, string(runes[i:i+size]))
		i += size
	}
	return segments
}

// Segment splits source using the built-in table.
func Segment(source string) []string {
	return Default().Segment(source)
}
