// Package midiout exports the chord progression of a song as a standard MIDI
// file, one quarter-note root per chord.
package midiout

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/chord"
	"github.com/DPDmancul/latex-songs-to-html/delatex"
	"github.com/DPDmancul/latex-songs-to-html/song"
)

const (
	baseKey  = 60 // middle C carries pitch class 0 (Do)
	velocity = 100
	tempo    = 120
)

// roots collects the root note of every chord of the song in playing order.
// Literal-only chords (replayed markers, textual directions) have no root and
// are skipped.
func roots(sg *song.Song) []chord.Note {
	var res []chord.Note
	for _, v := range sg.Verses {
		for _, l := range v.Lines {
			for _, c := range l.Chords {
				if c.Chord == nil {
					continue
				}
				if n, ok := c.Chord.Root(); ok {
					res = append(res, n)
				}
			}
		}
	}
	return res
}

// WriteSong writes the song's chord roots as a single-track MIDI file.
func WriteSong(sg *song.Song, path string) error {
	notes := roots(sg)
	if len(notes) == 0 {
		return fmt.Errorf("song #%d has no playable chords", sg.Number)
	}

	clock := smf.MetricTicks(960)
	var tr smf.Track
	name := delatex.Escape(strings.ReplaceAll(sg.Name, "<br>", " "), delatex.Plain, true)
	tr.Add(0, smf.MetaTrackSequenceName(name))
	tr.Add(0, smf.MetaTempo(tempo))
	for _, n := range notes {
		key := uint8(baseKey + int(n))
		tr.Add(0, midi.NoteOn(0, key, velocity))
		tr.Add(clock.Ticks4th(), midi.NoteOff(0, key))
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(tr); err != nil {
		return err
	}
	return s.WriteFile(path)
}

// WriteBook writes one MIDI file per song with chords into dir, named after
// the song number. It returns the number of files written.
func WriteBook(sections []book.Section, dir string) (int, error) {
	count := 0
	for _, sec := range sections {
		for _, sg := range sec.Songs {
			if len(roots(sg)) == 0 {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("%03d.mid", sg.Number))
			if err := WriteSong(sg, path); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
