// Package line lays out one verse line: it merges lyric text with the
// positional extras collected by the scanner into two aligned streams of
// lyric tokens and chord cells.
package line

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DPDmancul/latex-songs-to-html/chord"
)

// ExtraKind discriminates the out-of-band annotations a scanner attaches to
// character offsets of a line.
type ExtraKind int

const (
	// ExtraChord anchors a chord to a lyric character.
	ExtraChord ExtraKind = iota
	// ExtraRep is a repeat-count marker like (×3).
	ExtraRep
	// ExtraDirRep is a directional repeat bar glyph. Reserved: recognized
	// but never emitted by the scanner.
	ExtraDirRep
	// ExtraSkip is an inter-word spacing gap of the given size class.
	ExtraSkip
	// ExtraText is literal text routed to the chord stream of a
	// chord-only line.
	ExtraText
	// ExtraSpanOpen opens an inline-format environment named in Data.
	ExtraSpanOpen
	// ExtraSpanClose closes the innermost open environment.
	ExtraSpanClose
)

// Extra is a single annotation tied to a character offset.
type Extra struct {
	Kind  ExtraKind
	Chord *chord.Chord // ExtraChord payload
	Data  string       // rep count, dir-rep glyph, skip class, literal text or env name
}

func spanBegin(class string) string {
	return fmt.Sprintf(`<em class="%s">`, class)
}

// SpanBegin and SpanEnd map inline-format environment names to their opening
// and closing markup.
var SpanBegin = map[string]string{
	"echo":            spanBegin("echo"),
	"poetry":          spanBegin("poetry"),
	"emph":            "<em>",
	"textit":          "<i>",
	"textbf":          "<b>",
	"underline":       "<u>",
	"alert":           "<mark>",
	"textsuperscript": "<sup>",
	"textsubscript":   "<sub>",
	"textnormal":      `<span class="normal">`,
	"textsmall":       `<small class="small">`,
	"texttiny":        `<small class="tiny">`,
}

var SpanEnd = map[string]string{
	"echo":            "</em>",
	"poetry":          "</em>",
	"emph":            "</em>",
	"textbf":          "</b>",
	"textit":          "</i>",
	"underline":       "</u>",
	"alert":           "</mark>",
	"textsuperscript": "</sup>",
	"textsubscript":   "</sub>",
	"textnormal":      "</span>",
	"textsmall":       "</small>",
	"texttiny":        "</small>",
}

// Cell is one column of the chord stream. The zero Cell is the empty
// placeholder emitted after floating chords and repeat markers.
type Cell struct {
	Chord   *chord.Chord
	Rowspan int
	Class   string     // dir-rep glyph class, reserved
	Env     *[2]string // markup reopened around the chord on chord-only lines
}

// Line is one laid-out verse line. Lyrics is nil on chord-only lines, whose
// content lives entirely in the chord cells.
type Line struct {
	Lyrics []string
	Chords []Cell
}

var edgeSpaces = regexp.MustCompile("^ +| +$")

func skipMarkup(class string) string {
	return `</td><td class="` + class + `">&nbsp;</td><td>`
}

// NewSkip builds the zero-height spacing line that follows a line marked with
// a skip macro.
func NewSkip(class string) *Line {
	return &Line{Lyrics: []string{skipMarkup(class)}}
}

// New lays the line out. extras holds, for each character offset of text, the
// annotations anchored there; it may be shorter or one slot longer than the
// text (the scanner keeps a slot past the final newline).
func New(text string, extras [][]Extra) (*Line, error) {
	l := &Line{Chords: []Cell{{Chord: chord.Literal(""), Rowspan: 1}}}
	nolyrics := strings.TrimSpace(text) == ""

	var addLyrics func(txt string)
	var newLyric func(txt string)
	if nolyrics {
		// no lyrics: everything lands in the chord row
		addLyrics = func(txt string) {
			l.Chords[len(l.Chords)-1].Chord.Append(txt)
		}
		newLyric = func(txt string) {
			l.Chords = append(l.Chords, Cell{Chord: chord.Literal(txt), Rowspan: 1})
		}
	} else {
		l.Lyrics = []string{""}
		addLyrics = func(txt string) {
			l.Lyrics[len(l.Lyrics)-1] += txt
		}
		newLyric = func(txt string) {
			l.Lyrics = append(l.Lyrics, txt)
		}
	}

	runes := []rune(text)
	mid := true
	var inside []string

	top := func() string { return inside[len(inside)-1] }

	for i, r := range runes {
		var here []Extra
		if i < len(extras) {
			here = extras[i]
		}
		for _, e := range here {
			switch e.Kind {
			case ExtraChord:
				// floating chord: sits on an isolated space, so it
				// gets a column of its own
				floating := r == ' ' && (i == 0 || runes[i-1] == ' ')
				cell := Cell{Chord: e.Chord, Rowspan: 1}
				if nolyrics && len(inside) > 0 {
					cell.Env = &[2]string{SpanBegin[top()], SpanEnd[top()]}
				}
				l.Chords = append(l.Chords, cell)
				if len(inside) > 0 {
					addLyrics(SpanEnd[top()])
				}
				if floating {
					newLyric("")
					l.Chords = append(l.Chords, Cell{})
				}
				if len(inside) > 0 {
					newLyric(SpanBegin[top()])
				} else {
					newLyric("")
				}
				mid = true
			case ExtraDirRep:
				l.Chords = append(l.Chords, Cell{Class: e.Data, Rowspan: 2}, Cell{})
				if mid && len(inside) > 0 {
					addLyrics(SpanEnd[top()])
				}
				mid = false
			case ExtraRep:
				newLyric(`<span class="rep">(×` + e.Data + `)</span>`)
				l.Chords = append(l.Chords, Cell{})
				mid = false
			case ExtraSpanOpen:
				if !mid {
					newLyric("")
					mid = true
				}
				inside = append(inside, e.Data)
				start := SpanBegin[e.Data]
				if e.Data == "echo" {
					start += "("
				}
				addLyrics(start)
			case ExtraSpanClose:
				if len(inside) == 0 {
					return nil, fmt.Errorf("span close with no open span")
				}
				if !mid {
					newLyric(SpanBegin[top()])
					mid = true
				}
				env := top()
				inside = inside[:len(inside)-1]
				end := SpanEnd[env]
				if env == "echo" {
					end = ")" + end
				}
				addLyrics(end)
			case ExtraSkip:
				addLyrics(skipMarkup(e.Data))
			case ExtraText:
				if last := len(l.Chords) - 1; last >= 0 && l.Chords[last].Chord != nil {
					l.Chords[last].Chord.Append(e.Data)
				} else {
					l.Chords = append(l.Chords, Cell{Chord: chord.Literal(e.Data), Rowspan: 1})
				}
			default:
				return nil, fmt.Errorf("unrecognized extra kind %d", e.Kind)
			}
		}

		if !mid {
			if len(inside) > 0 {
				newLyric(SpanBegin[top()])
			} else {
				newLyric("")
			}
		}
		mid = true
		addLyrics(string(r))
	}

	if l.Lyrics != nil {
		for i, tok := range l.Lyrics {
			tok = strings.TrimSuffix(tok, "\n")
			// keep edge spaces visible in HTML output
			l.Lyrics[i] = edgeSpaces.ReplaceAllString(tok, "&nbsp;")
		}
	}
	return l, nil
}

// Transpose moves every chord cell by the given amount of semitones.
func (l *Line) Transpose(amount int) {
	for _, c := range l.Chords {
		if c.Chord != nil {
			c.Chord.Transpose(amount)
		}
	}
}

// HasChords reports whether at least one chord cell renders to non-blank text.
func (l *Line) HasChords() bool {
	for _, c := range l.Chords {
		if c.Chord != nil && strings.TrimSpace(c.Chord.String()) != "" {
			return true
		}
	}
	return false
}
