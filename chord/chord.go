// Package chord represents song chords as sequences of pitch-class notes and
// literal text, with modulo-12 transposition.
package chord

import (
	"fmt"
	"strings"
	"unicode"
)

// Note is one of the 12 semitone pitch classes.
type Note int

// Italian names, indexed by pitch class.
var noteNames = [12]string{
	"Do", "Do♯", "Re", "Mi♭", "Mi", "Fa", "Fa♯", "Sol", "Sol♯", "La", "Si♭", "Si",
}

// semitones maps english note letters and accidental marks to a pitch class or
// pitch adjustment. European notation is used, so B=H and B&=H&=A#.
var semitones = map[rune]int{
	'A': 9,
	'B': 11,
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'H': 11,
	// accidentals
	'#': 1,
	'♯': 1,
	'&': -1,
	'♭': -1,
}

func isAccidental(r rune) bool {
	return r == '#' || r == '♯' || r == '&' || r == '♭'
}

// Add transposes the note by n semitones, modulo 12.
func (n Note) Add(i int) Note {
	return Note(((int(n)+i)%12 + 12) % 12)
}

func (n Note) String() string {
	return noteNames[((int(n)%12)+12)%12]
}

// token is either a pitch-class note or a run of literal text.
type token struct {
	isNote bool
	note   Note
	lit    string
}

// InvalidChordError reports an accidental mark with no note in front of it.
type InvalidChordError struct {
	Chord string // the chord source text
	Token string // the offending preceding token, if any
}

func (e *InvalidChordError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("cannot read chord %q: accidental with no preceding note", e.Chord)
	}
	return fmt.Sprintf("cannot read chord %q: %q is not a valid note", e.Chord, e.Token)
}

// Chord is an ordered sequence of note and literal tokens. The token sequence
// is fixed at parse time; Transpose only moves the rendering offset and the
// cached display string.
type Chord struct {
	tokens []token
	offset int
	text   string
}

// Literal builds a chord holding only the given text, used for replayed and
// other synthetic chord markers. Transposition leaves it untouched.
func Literal(text string) *Chord {
	c := &Chord{}
	if text != "" {
		c.tokens = append(c.tokens, token{lit: text})
	}
	c.text = text
	return c
}

// Parse scans a chord string like "C&-7" into tokens and renders it transposed
// by tran semitones. A character from the pitch table is read as a note or
// accidental unless the preceding literal run ends in an alphanumeric
// character, which keeps note letters inside words like "Fine" literal.
func Parse(text string, tran int) (*Chord, error) {
	c := &Chord{}
	for _, r := range text {
		n, known := semitones[r]
		last := len(c.tokens) - 1
		blocked := last >= 0 && !c.tokens[last].isNote && endsAlnum(c.tokens[last].lit)
		switch {
		case known && !blocked && isAccidental(r):
			// an escaped accidental like \# leaves its backslash behind
			if last >= 0 && !c.tokens[last].isNote && strings.HasSuffix(c.tokens[last].lit, `\`) {
				c.tokens[last].lit = strings.TrimSuffix(c.tokens[last].lit, `\`)
				if c.tokens[last].lit == "" {
					c.tokens = c.tokens[:last]
					last--
				}
			}
			if last < 0 {
				return nil, &InvalidChordError{Chord: text}
			}
			if !c.tokens[last].isNote {
				return nil, &InvalidChordError{Chord: text, Token: c.tokens[last].lit}
			}
			c.tokens[last].note = c.tokens[last].note.Add(n)
		case known && !blocked:
			c.tokens = append(c.tokens, token{isNote: true, note: Note(n)})
		case last >= 0 && !c.tokens[last].isNote:
			c.tokens[last].lit += string(r)
		default:
			c.tokens = append(c.tokens, token{lit: string(r)})
		}
	}
	c.Transpose(tran)
	return c, nil
}

func endsAlnum(s string) bool {
	rs := []rune(s)
	if len(rs) == 0 {
		return false
	}
	r := rs[len(rs)-1]
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Transposed renders the chord at n semitones above its parsed pitch,
// independent of the current transposition offset.
func (c *Chord) Transposed(n int) string {
	var b strings.Builder
	for _, t := range c.tokens {
		if t.isNote {
			b.WriteString(t.note.Add(n).String())
		} else {
			b.WriteString(t.lit)
		}
	}
	return b.String()
}

// Transpose moves the chord by n semitones and refreshes the cached display
// string. Transpositions accumulate: Transpose(a) followed by Transpose(b)
// renders the same as a single Transpose(a+b).
func (c *Chord) Transpose(n int) {
	c.offset = ((c.offset+n)%12 + 12) % 12
	c.text = c.Transposed(c.offset)
}

// Append adds a literal text fragment to the chord.
func (c *Chord) Append(text string) {
	if text == "" {
		return
	}
	c.tokens = append(c.tokens, token{lit: text})
	c.text += text
}

func (c *Chord) String() string {
	return c.text
}

// Root returns the first note of the chord at the current transposition
// offset, or false when the chord holds only literal text.
func (c *Chord) Root() (Note, bool) {
	for _, t := range c.tokens {
		if t.isNote {
			return t.note.Add(c.offset), true
		}
	}
	return 0, false
}
