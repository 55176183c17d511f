// Package song parses one song source into its verse structure. A scanner
// walks each line rune by rune, consuming the markup macros it recognizes and
// collecting positional extras (chords, repeats, format spans) that the line
// package later folds into laid-out lines.
package song

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DPDmancul/latex-songs-to-html/chord"
	"github.com/DPDmancul/latex-songs-to-html/delatex"
	"github.com/DPDmancul/latex-songs-to-html/line"
	"github.com/DPDmancul/latex-songs-to-html/util"
)

// Song is a parsed song: title, metadata and verses, ready for rendering.
type Song struct {
	Name   string
	Number int
	Author string
	Capo   int // 0 when unset
	Verses []*Verse
}

// HasChords reports whether any verse of the song carries a visible chord.
func (s *Song) HasChords() bool {
	for _, v := range s.Verses {
		if v.HasChords() {
			return true
		}
	}
	return false
}

// Transpose moves every chord of the song by the given amount of semitones.
func (s *Song) Transpose(amount int) {
	for _, v := range s.Verses {
		v.Transpose(amount)
	}
}

// StructureError reports a verse closed by the chorus end command or vice
// versa. It aborts the song.
type StructureError struct {
	Number int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("song #%d: ended chorus-verse with wrong command", e.Number)
}

var (
	commentRe   = regexp.MustCompile(`%.*$`)
	brkRe       = regexp.MustCompile(`\\brk(\{\})?`)
	memorizeRe  = regexp.MustCompile(`^\\memorize`)
	chordRe     = regexp.MustCompile(`^\\\[(.+?)\]`)
	repBraceRe  = regexp.MustCompile(`^\\rep\{(.+?)\}`)
	repDigitRe  = regexp.MustCompile(`^\\rep(\d)\}?`)
	macroRe     = regexp.MustCompile(`^\\(\d?\w+)[ \t]*?(\{.*?\}|\[.*?\])*`)
	elseRe      = regexp.MustCompile(`^\\else`)
	fiRe        = regexp.MustCompile(`^\\fi`)
	transposeRe = regexp.MustCompile(`^\\transpose *\{([-+]?\d+)\}`)
	songBeginRe = regexp.MustCompile(`^\\beginsong *\{((?:[^{}]|\{.*?\})*?)\}(\[.*?\])?`)
	titleBrkRe  = regexp.MustCompile(`^(.*)\\\\((?:[^{}]|\{.*\})*)`)
	authorRe    = regexp.MustCompile(`by=\{(.*?)\}`)
	songEndRe   = regexp.MustCompile(`^\\endsong`)
	verseCmdRe  = regexp.MustCompile(`^\\(begin|end)(verse|chorus)(\*?)`)
	capoRe      = regexp.MustCompile(`^\\capo\{(\d+)\}`)
	replayRe    = regexp.MustCompile(`^\\replay`)
	chordswapRe = regexp.MustCompile(`^\\chords(on|off)`)
	skipRe      = regexp.MustCompile(`^\\((?:small|med|big)skip)`)
	noteRe      = regexp.MustCompile(`^\\(?:music|text)note[ \t]*\{((?:[^{]|\{.*?\})*?)\}`)
	nolyricsRe  = regexp.MustCompile(`^\\nolyrics`)
	stackRe     = regexp.MustCompile(`^(\{|\})`)
	noindentRe  = regexp.MustCompile(`^\\noindent`)
	// a meter definition is only looked for before the first bar separator
	meterScanRe = regexp.MustCompile(`^([^|]*?)\\meter[{\d]`)
	meterDefRe  = regexp.MustCompile(`^\\meter(?:\{(.+?)\}|(\d|\\[^ \n{]+))(?:\{(\d+)\}|(\d))?`)
)

// envRes holds the per-environment patterns of the inline-format span macros:
// the self-closing empty form, the opening form and the closing marker the
// scanner itself plants into the text.
type envRes struct {
	name  string
	empty *regexp.Regexp
	open  *regexp.Regexp
	close *regexp.Regexp
}

var envs = buildEnvs()

func buildEnvs() []envRes {
	var res []envRes
	for _, env := range util.SortedKeys(line.SpanBegin) {
		res = append(res, envRes{
			name:  env,
			empty: regexp.MustCompile(`^(\\` + env + `[ \t\n]*?)\{[ \t\n]*\}`),
			open:  regexp.MustCompile(`^(\\` + env + `[ \t]*?\{)((?:[^{}\n]|\{[^{}\n]*\})*?)(\}|\n|$)`),
			close: regexp.MustCompile(`^\\` + env + `end`),
		})
	}
	return res
}

// scope is one frame of the brace stack. Pushing copies the whole frame, so
// settings made inside a group die with it.
type scope struct {
	transpose int
	nolyrics  bool
}

type meterSig struct {
	num, den string // den empty when the meter has no denominator
}

type parser struct {
	song  *Song
	index int

	verse       *Verse
	ignore      bool
	globalChord bool
	localChord  bool
	meter       *meterSig
	verseIndent bool
	stack       []scope

	memory      []*chord.Chord
	memorizing  bool
	replayIndex int

	addendum string
	done     bool
}

// Parse reads one song source and returns its parsed form. Any failure inside
// a line aborts the whole song; no partial result is kept.
func Parse(r io.Reader, index int) (*Song, error) {
	p := &parser{
		song:        &Song{},
		index:       index,
		globalChord: true,
		localChord:  true,
		meter:       &meterSig{num: "4", den: "4"},
		verseIndent: true,
		stack:       []scope{{}},
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := p.processLine(sc.Text()); err != nil {
			return nil, err
		}
		if p.done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.song, nil
}

func (p *parser) top() *scope {
	return &p.stack[len(p.stack)-1]
}

func (p *parser) push() {
	p.stack = append(p.stack, p.stack[len(p.stack)-1])
}

func (p *parser) processLine(raw string) error {
	full := p.addendum + raw
	p.addendum = ""
	if err := p.scanLine(full); err != nil {
		return fmt.Errorf("on line `%s`: %w", full, err)
	}
	return nil
}

func (p *parser) scanLine(full string) error {
	text := commentRe.ReplaceAllString(full, "")
	text = brkRe.ReplaceAllString(text, "")
	text = p.applyModifiers(text)
	// the trailing newline carries the extras slot of end-of-line chords
	text += "\n"

	var lineSkip string
	extras := [][]line.Extra{nil}
	b := 0 // byte offset of the scan cursor; len(extras)-1 is its rune offset

scan:
	for b < len(text) {
		i := len(extras) - 1
		beginning, remain := text[:b], text[b:]

		if p.ignore {
			// discarded region: braces and verse bounds still count
			if fiRe.MatchString(remain) {
				p.ignore = false
				text = beginning + remain[len(`\fi`):]
			} else if stackRe.MatchString(remain) {
				p.doBrace(remain[:1], full)
				text = beginning + remain[1:]
			} else if m := verseCmdRe.FindStringSubmatch(remain); m != nil {
				if err := p.doVerseCmd(m); err != nil {
					return err
				}
				text = beginning + remain[len(m[0]):]
			} else {
				_, size := utf8.DecodeRuneInString(remain)
				text = beginning + remain[size:]
			}
			continue
		}

		sawMeterMacro := false
		if m := meterScanRe.FindStringSubmatch(remain); m != nil {
			if newText, sig, ok := consumeMeter(beginning, m[1], remain); ok {
				text, p.meter = newText, sig
				continue
			}
			// malformed definition: leave it to the command lookup below
			sawMeterMacro = true
		}
		if !sawMeterMacro && p.meter != nil && strings.Contains(remain, "|") {
			var span string
			if p.meter.den != "" {
				span = fmt.Sprintf(`<span class="meter"><span class="meter-fraction"><sup>%s</sup><sub>%s</sub></span></span>`,
					p.meter.num, p.meter.den)
			} else {
				span = fmt.Sprintf(`<span class="meter">%s</span>`, p.meter.num)
			}
			text = beginning + strings.Replace(remain, "|", span, 1)
			p.meter = nil
			continue
		}

		if m := transposeRe.FindStringSubmatch(remain); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return err
			}
			p.top().transpose = n
			text = beginning + remain[len(m[0]):]
		} else if m := songBeginRe.FindStringSubmatch(remain); m != nil {
			p.song.Name = m[1]
			if t := titleBrkRe.FindStringSubmatch(p.song.Name); t != nil {
				p.song.Name = t[1] + "<br>(" + t[2] + ")"
			}
			p.song.Number = p.index
			if a := authorRe.FindStringSubmatch(m[2]); a != nil {
				p.song.Author = a[1]
			}
			text = beginning + remain[len(m[0]):]
		} else if songEndRe.MatchString(remain) {
			p.done = true
			return nil
		} else if m := verseCmdRe.FindStringSubmatch(remain); m != nil {
			if err := p.doVerseCmd(m); err != nil {
				return err
			}
			text = beginning + remain[len(m[0]):]
		} else if m := capoRe.FindStringSubmatch(remain); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return err
			}
			p.song.Capo = n
			text = beginning + remain[len(m[0]):]
		} else if elseRe.MatchString(remain) {
			p.ignore = true
			text = beginning + remain[len(`\else`):]
		} else if m := chordRe.FindStringSubmatch(remain); m != nil {
			c, err := chord.Parse(m[1], p.top().transpose)
			if err != nil {
				return err
			}
			if p.localChord {
				extras[i] = append(extras[i], line.Extra{Kind: line.ExtraChord, Chord: c})
			}
			if p.memorizing {
				p.memory = append(p.memory, c)
			}
			text = beginning + remain[len(m[0]):]
		} else if strings.HasPrefix(remain, "^") {
			if p.replayIndex < len(p.memory) {
				if p.localChord {
					// replayed at the current scope's offset, frozen as text
					c := chord.Literal(p.memory[p.replayIndex].Transposed(p.top().transpose))
					extras[i] = append(extras[i], line.Extra{Kind: line.ExtraChord, Chord: c})
				}
				p.replayIndex++
			}
			text = beginning + remain[1:]
		} else if m := findRep(remain); m != nil {
			extras[i] = append(extras[i], line.Extra{Kind: line.ExtraRep, Data: m[1]})
			text = beginning + remain[len(m[0]):]
		} else if memorizeRe.MatchString(remain) {
			p.memory = nil
			p.memorizing = true
			text = beginning + remain[len(`\memorize`):]
		} else if replayRe.MatchString(remain) {
			p.replayIndex = 0
			text = beginning + remain[len(`\replay`):]
		} else if m := chordswapRe.FindStringSubmatch(remain); m != nil {
			p.localChord = m[1] == "on"
			if p.verse == nil {
				p.globalChord = p.localChord
			}
			text = beginning + remain[len(m[0]):]
		} else if m := skipRe.FindStringSubmatch(remain); m != nil {
			lineSkip = m[1]
			text = beginning + remain[len(m[0]):]
		} else if m := noteRe.FindStringSubmatch(remain); m != nil {
			text = beginning + `<p class="note">` + m[1] + `</p>` + remain[len(m[0]):]
		} else if nolyricsRe.MatchString(remain) {
			p.top().nolyrics = true
			text = beginning + remain[len(`\nolyrics`):]
		} else if stackRe.MatchString(remain) {
			p.doBrace(remain[:1], full)
			text = beginning + remain[1:]
		} else if noindentRe.MatchString(remain) {
			p.verseIndent = false
			text = beginning + remain[len(`\noindent`):]
		} else {
			for _, e := range envs {
				if m := e.empty.FindString(remain); m != "" {
					text = beginning + remain[len(m):]
					continue scan
				}
				if m := e.open.FindStringSubmatchIndex(remain); m != nil {
					opener := remain[m[2]:m[3]]
					body := remain[m[4]:m[5]]
					consumed := m[1]
					if remain[m[6]:m[7]] != "}" {
						// unterminated span: reopen it on the next line
						consumed = m[6]
						p.addendum += opener
					}
					extras[i] = append(extras[i], line.Extra{Kind: line.ExtraSpanOpen, Data: e.name})
					text = beginning + body + `\` + e.name + "end " + remain[consumed:]
					continue scan
				}
				if m := e.close.FindString(remain); m != "" {
					extras[i] = append(extras[i], line.Extra{Kind: line.ExtraSpanClose})
					text = beginning + remain[len(m):]
					continue scan
				}
			}

			// anything else passes through as lyric text; a macro that
			// escaping would drop entirely is worth a report
			if m := macroRe.FindString(remain); m != "" && delatex.Escape(m, delatex.Plain, true) == "" {
				fmt.Printf("Song #%d (%s): unrecognized command `%s`\n", p.index, p.song.Name, m)
			}

			r, size := utf8.DecodeRuneInString(remain)
			if p.top().nolyrics {
				if last := len(extras[i]) - 1; last >= 0 && extras[i][last].Kind == line.ExtraText {
					extras[i][last].Data += string(r)
				} else {
					extras[i] = append(extras[i], line.Extra{Kind: line.ExtraText, Data: string(r)})
				}
				text = beginning + remain[size:]
				continue
			}
			extras = append(extras, nil)
			b += size
		}
	}

	blank := strings.TrimSpace(text) == ""

	if p.verse == nil && !blank {
		// free-floating text between verses becomes its own unnumbered verse
		v := NewVerse(false, false, p.verseIndent)
		p.verseIndent = true
		l, err := line.New(text, nil)
		if err != nil {
			return err
		}
		v.AddLine(l)
		p.song.Verses = append(p.song.Verses, v)
		return nil
	}
	if p.ignore || blank && len(extras[0]) == 0 {
		return nil
	}

	if p.verse != nil {
		t := text
		if blank {
			t = strings.Repeat(" ", len(extras))
		}
		l, err := line.New(t, extras)
		if err != nil {
			return err
		}
		p.verse.AddLine(l)
	}

	if lineSkip != "" {
		l := line.NewSkip(lineSkip)
		switch {
		case p.verse != nil:
			p.verse.AddLine(l)
		case len(p.song.Verses) > 0:
			p.song.Verses[len(p.song.Verses)-1].AddLine(l)
		}
	}
	return nil
}

func findRep(remain string) []string {
	if m := repBraceRe.FindStringSubmatch(remain); m != nil {
		return m
	}
	return repDigitRe.FindStringSubmatch(remain)
}

func (p *parser) doBrace(tok, full string) {
	if tok == "{" {
		p.push()
		return
	}
	if len(p.stack) >= 2 {
		p.stack = p.stack[:len(p.stack)-1]
	} else {
		fmt.Printf("Song #%d (%s): Unmatched braces `%s`\n", p.index, p.song.Name, full)
	}
}

func (p *parser) doVerseCmd(m []string) error {
	if m[1] == "begin" {
		if m[2] == "verse" && len(p.memory) == 0 {
			// first verse records its chords for later ^ replays
			p.memorizing = true
		}
		p.replayIndex = 0
		p.verse = NewVerse(m[2] == "chorus", m[3] != "*", p.verseIndent)
		p.verseIndent = true
		p.push()
		return nil
	}
	if p.verse == nil {
		fmt.Printf("Song #%d (%s): unmatched \\end%s\n", p.index, p.song.Name, m[2])
		return nil
	}
	if p.verse.IsChorus != (m[2] == "chorus") {
		return &StructureError{Number: p.index}
	}
	p.memorizing = false
	p.song.Verses = append(p.song.Verses, p.verse)
	p.verse = nil
	p.localChord = p.globalChord
	if len(p.stack) >= 2 {
		p.stack = p.stack[:len(p.stack)-1]
	} else {
		fmt.Printf("Song #%d (%s): Unmatched braces `\\end%s`\n", p.index, p.song.Name, m[2])
	}
	return nil
}

func consumeMeter(beginning, before, remain string) (string, *meterSig, bool) {
	rest := remain[len(before):]
	d := meterDefRe.FindStringSubmatch(rest)
	if d == nil {
		return "", nil, false
	}
	num := d[1]
	if num == "" {
		num = d[2]
	}
	den := d[3]
	if den == "" {
		den = d[4]
	}
	return beginning + before + rest[len(d[0]):], &meterSig{num: num, den: den}, true
}

// Shorthand text modifiers like \small act from their position to the end of
// the group or line. They are rewritten into the equivalent span macros; one
// that runs off the end of the line is queued again for the next line.
var modPasses = []struct {
	re     *regexp.Regexp
	target func(name string) string
}{
	{regexp.MustCompile(`\\(small|tiny)`), func(n string) string { return `\text` + n }},
	{regexp.MustCompile(`\\(itshape)`), func(string) string { return `\textit` }},
	{regexp.MustCompile(`\\(normalfont)`), func(string) string { return `\textnormal` }},
}

var modArgRe = regexp.MustCompile(`^(?:[^{}\[\]\n]|\{[^{}\n]*\}|\\\[[^\]\n]*\])*`)

func (p *parser) applyModifiers(text string) string {
	for _, pass := range modPasses {
		var out strings.Builder
		pos := 0
		for pos < len(text) {
			loc := pass.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			name := text[pos+loc[2] : pos+loc[3]]
			arg, argEnd, ok := modArg(text, end)
			if !ok {
				out.WriteString(text[pos : start+1])
				pos = start + 1
				continue
			}
			if argEnd == len(text) {
				if s := strings.TrimSpace(arg); s != `\endverse` && s != `\endchorus` {
					p.addendum += `\` + name + " "
				}
			}
			out.WriteString(text[pos:start])
			out.WriteString(pass.target(name) + "{" + arg + "}")
			pos = argEnd
		}
		out.WriteString(text[pos:])
		text = out.String()
	}
	return text
}

// modArg reads the modifier argument starting at i: the character after the
// macro name must be a spacer (backslash, space, tab) or a terminator, and
// the argument runs to an unconsumed brace, bracket or end of line.
func modArg(text string, i int) (arg string, argEnd int, ok bool) {
	if i >= len(text) {
		return "", i, true
	}
	switch text[i] {
	case '}', ']':
		return "", i, true
	case '\\', ' ', '\t':
	default:
		return "", 0, false
	}
	arg = modArgRe.FindString(text[i:])
	end := i + len(arg)
	if end == len(text) || text[end] == '}' || text[end] == ']' {
		return arg, end, true
	}
	return "", 0, false
}
