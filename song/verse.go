package song

import "github.com/DPDmancul/latex-songs-to-html/line"

// Verse is one block of lines: a numbered verse, an unnumbered verse or a
// chorus. Choruses are never numbered nor indented.
type Verse struct {
	IsChorus bool
	Numbered bool
	Indent   bool
	Lines    []*line.Line
}

func NewVerse(isChorus, numbered, indent bool) *Verse {
	return &Verse{
		IsChorus: isChorus,
		Numbered: !isChorus && numbered,
		Indent:   !isChorus && indent,
	}
}

func (v *Verse) AddLine(l *line.Line) {
	v.Lines = append(v.Lines, l)
}

// Transpose moves every chord of the verse by the given amount of semitones.
func (v *Verse) Transpose(amount int) {
	for _, l := range v.Lines {
		l.Transpose(amount)
	}
}

// HasChords reports whether any line of the verse carries a visible chord.
func (v *Verse) HasChords() bool {
	for _, l := range v.Lines {
		if l.HasChords() {
			return true
		}
	}
	return false
}
