// Package model holds the wire representation of a parsed songbook, as served
// by the HTTP API and dumped by the inspect command.
package model

import (
	"strings"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/delatex"
	"github.com/DPDmancul/latex-songs-to-html/song"
)

type Book struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Title string         `json:"title,omitempty"`
	Songs []SongOverview `json:"songs"`
}

type SongOverview struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	HasChords bool   `json:"hasChords"`
}

type SongDetail struct {
	SongOverview
	Capo      int     `json:"capo,omitempty"`
	Transpose int     `json:"transpose"`
	Verses    []Verse `json:"verses"`
}

type Verse struct {
	Chorus   bool   `json:"chorus"`
	Numbered bool   `json:"numbered"`
	Indent   bool   `json:"indent"`
	Lines    []Line `json:"lines"`
}

type Line struct {
	Lyrics []string `json:"lyrics,omitempty"`
	Chords []string `json:"chords,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}

// FromBook flattens the parsed sections into the overview document. The first
// section's title is promoted to book title, matching the rendered page.
func FromBook(sections []book.Section) Book {
	b := Book{}
	for i, sec := range sections {
		title := sec.Title
		if i == 0 {
			b.Title = plainTitle(title)
			title = ""
		}
		s := Section{Title: plainTitle(title)}
		for _, sg := range sec.Songs {
			s.Songs = append(s.Songs, FromSongOverview(sg))
		}
		b.Sections = append(b.Sections, s)
	}
	return b
}

func FromSongOverview(s *song.Song) SongOverview {
	return SongOverview{
		Number:    s.Number,
		Title:     plainTitle(s.Name),
		Author:    delatex.Escape(s.Author, delatex.Plain, true),
		HasChords: s.HasChords(),
	}
}

// FromSong renders the full song. transpose is echoed back so clients know
// which offset the chords are rendered at.
func FromSong(s *song.Song, transpose int) SongDetail {
	d := SongDetail{
		SongOverview: FromSongOverview(s),
		Capo:         s.Capo,
		Transpose:    transpose,
	}
	for _, v := range s.Verses {
		mv := Verse{
			Chorus:   v.IsChorus,
			Numbered: v.Numbered,
			Indent:   v.Indent,
		}
		for _, l := range v.Lines {
			ml := Line{}
			for _, tok := range l.Lyrics {
				ml.Lyrics = append(ml.Lyrics, delatex.Escape(tok, delatex.HTML, true))
			}
			if l.HasChords() {
				for _, c := range l.Chords {
					text := ""
					if c.Chord != nil {
						text = c.Chord.String()
						if c.Env != nil {
							text = c.Env[0] + text + c.Env[1]
						}
					}
					ml.Chords = append(ml.Chords, delatex.Escape(text, delatex.HTML, true))
				}
			}
			mv.Lines = append(mv.Lines, ml)
		}
		d.Verses = append(d.Verses, mv)
	}
	return d
}

// plainTitle strips markup from a title, turning the embedded line break into
// a plain space.
func plainTitle(name string) string {
	return delatex.Escape(strings.ReplaceAll(name, "<br>", " "), delatex.Plain, true)
}
