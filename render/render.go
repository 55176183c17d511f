// Package render turns a parsed songbook into a single HTML page: song
// tables with aligned chord and lyric rows, sticky section labels and a table
// of contents.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/delatex"
	"github.com/DPDmancul/latex-songs-to-html/song"
)

// Options selects the page language and the table of contents title.
type Options struct {
	Language string
	TocTitle string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="build" content="{{.Build}}">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>{{.Heading}}</h1>
<p><a href="#toc">{{.TocTitle}}</a></p>
{{.Body}}
{{.Nav}}
</body>
</html>
`))

// Book renders the whole page. The first section's title doubles as the book
// title and gets no section label of its own.
func Book(sections []book.Section, opts Options) (string, error) {
	title := ""
	if len(sections) > 0 {
		title = sections[0].Title
	}
	nSec := len(sections) - 1
	if nSec < 1 {
		nSec = 1
	}

	var body strings.Builder
	for i, sec := range sections {
		if len(sec.Songs) == 0 {
			continue
		}
		name := sec.Title
		if i == 0 {
			name = ""
		}
		if name == "" {
			body.WriteString(`<section id="">` + "\n")
		} else {
			fmt.Fprintf(&body, "<section id=\"sec-%s\">\n", delatex.Escape(name, delatex.Plain, true))
			fmt.Fprintf(&body, `<h2 class="section-label" style="top: %gvh">%s</h2>`+"\n",
				float64(i-1)*100/float64(nSec), delatex.Escape(name, delatex.HTML, true))
		}
		for _, s := range sec.Songs {
			writeSong(&body, s)
		}
		body.WriteString("</section>\n")
	}

	data := struct {
		Lang     string
		Build    string
		Title    string
		Heading  template.HTML
		TocTitle string
		CSS      template.CSS
		Body     template.HTML
		Nav      template.HTML
	}{
		Lang:     opts.Language,
		Build:    uuid.NewString(),
		Title:    delatex.Escape(title, delatex.Plain, true),
		Heading:  template.HTML(delatex.Escape(title, delatex.HTML, true)),
		TocTitle: opts.TocTitle,
		CSS:      template.CSS(fmt.Sprintf(css, nSec)),
		Body:     template.HTML(body.String()),
		Nav:      template.HTML(toc(sections, opts.TocTitle)),
	}

	var out strings.Builder
	if err := pageTmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

func writeSong(w *strings.Builder, s *song.Song) {
	w.WriteString(`<article class="song">` + "\n")
	fmt.Fprintf(w, `<header class="song-header"><strong class="song-number">%d</strong>`, s.Number)
	fmt.Fprintf(w, `<div class="song-info"><h3 id="song-%d" class="song-title"><span class="hidden">%d. </span>%s</h3>`,
		s.Number, s.Number, delatex.Escape(s.Name, delatex.HTML, true))
	fmt.Fprintf(w, `<p class="song-author">%s</p></div></header>`+"\n",
		delatex.Escape(s.Author, delatex.HTML, true))

	verseNum := 1
	for _, v := range s.Verses {
		cls := "verse"
		if v.IsChorus {
			cls = "verse chorus"
		}
		fmt.Fprintf(w, `<div class="%s">`+"\n", cls)

		// firstCol is nil for unindented verses; otherwise it holds the
		// verse number until the first non-empty line shows it
		var firstCol *string
		if v.Indent {
			col := ""
			if v.Numbered {
				col = fmt.Sprintf("%d.", verseNum)
				verseNum++
			}
			firstCol = &col
		}

		for _, l := range v.Lines {
			w.WriteString("<table>")
			if l.HasChords() {
				w.WriteString("<tr>")
				if firstCol != nil {
					col := *firstCol
					if l.Lyrics != nil {
						col = ""
					}
					fmt.Fprintf(w, `<td class="verse-num-col">%s</td>`, col)
				}
				for _, c := range l.Chords {
					text := ""
					if c.Chord != nil {
						text = c.Chord.String()
						if c.Env != nil {
							text = c.Env[0] + text + c.Env[1]
						}
					}
					fmt.Fprintf(w, "<td>%s</td>", delatex.Escape(text, delatex.HTML, true))
				}
				w.WriteString("</tr>")
			}
			if l.Lyrics != nil {
				w.WriteString("<tr>")
				if firstCol != nil {
					fmt.Fprintf(w, `<td class="verse-num-col">%s</td>`, *firstCol)
				}
				for _, tok := range l.Lyrics {
					content := delatex.Escape(tok, delatex.HTML, true)
					if v.IsChorus {
						fmt.Fprintf(w, "<td><strong>%s</strong></td>", content)
					} else {
						fmt.Fprintf(w, "<td>%s</td>", content)
					}
				}
				w.WriteString("</tr>")
			}
			if (l.HasChords() || l.Lyrics != nil) && firstCol != nil {
				col := ""
				firstCol = &col
			}
			w.WriteString("</table>\n")
		}
		w.WriteString("</div>\n")
	}
	w.WriteString("</article>\n")
}

func toc(sections []book.Section, title string) string {
	var w strings.Builder
	w.WriteString(`<nav id="toc">` + "\n")
	fmt.Fprintf(&w, "<h2>%s</h2>\n<ul>\n", title)
	for i, sec := range sections {
		if len(sec.Songs) == 0 {
			continue
		}
		name := sec.Title
		if i == 0 {
			name = ""
		}
		if name != "" {
			fmt.Fprintf(&w, `<li><a href="#sec-%s">%s</a>`+"\n",
				delatex.Escape(name, delatex.Plain, true), delatex.Escape(name, delatex.HTML, true))
		}
		w.WriteString("<ol>\n")
		for _, s := range sec.Songs {
			label := strings.ReplaceAll(s.Name, "<br>", " ")
			fmt.Fprintf(&w, `<li value="%d"><a href="#song-%d">%s</a><br><em>%s</em></li>`+"\n",
				s.Number, s.Number,
				delatex.Escape(label, delatex.HTML, true),
				delatex.Escape(s.Author, delatex.Plain, true))
		}
		w.WriteString("</ol>\n")
		if name != "" {
			w.WriteString("</li>\n")
		}
	}
	w.WriteString("</ul>\n</nav>\n")
	return w.String()
}

const css = `
.hidden{
  display: none;
}

/* Fonts */
em, i{
  font-style: italic;
}
strong, b{
  font-weight: bold;
}
u{
  text-decoration: underline;
}
small, .small{
  font-size: smaller /* small */;
}
.tiny{
  font-size: smaller /* x-small */;
}
.poetry{
  font-style: normal;
  font-family: 'TeX Gyre Chorus', 'Monotype Corsiva', 'URW Chancery L', 'Apple Chancery', 'Felipa', 'Sand', 'Script MT', 'Textile', 'Zapf Chancery', chancery, cursive;
}
.normal{
  font-style: normal;
  font-weight: normal;
  text-decoration: none;
  font-size: medium;
}

/* Song table */
td{
  padding: 0;
  line-height: 1.1em;
}

/* Song header */
.song-header{
  display: flex;
  margin-top: 5px;
  margin-bottom: 5px;
}
.song-number{
  font-size: 1.5em;
  background: lightgray;
  padding: 5px;
  margin-right: 5px;
  min-width: 40px;
  text-align: center;
}
.song-title{
  text-transform: uppercase;
}
.song-title, .song-author{
  margin: 0;
}
.song-info{
  display: flex;
  flex-direction: column;
}

/* Verses and choruses */
.verse{
  padding: 5px;
}
.verse-num-col{
  width: 30px;
  padding-right: 5px;
  text-align: right;
}
.chorus {
  border-left: 1px black solid;
}
.chorus strong{
  font-weight: normal;
}

/* Skip */
.bigskip{
  line-height: 1.3em;
}
.medskip{
  line-height: .8em;
}
.smallskip{
  line-height: .3em;
}

/* Notes */
.note{
  background: lightgray;
  padding: 5px;
}

/* Meter */
.meter-fraction{
  display: inline-block;
  line-height: 0.85em;
  font-size: 80%%;
  text-align: center;
  vertical-align: middle;
}
.meter-fraction sup, .meter-fraction sub{
  display: block;
  vertical-align: baseline;
  font-size: inherit;
}

/* Sections */
@media only screen{
  body{
    margin-left: 30px;
  }
  .section-label{
    position: sticky;
    top: 200px;
    display: inline-grid;
    align-items: center;
    justify-content: center;
    color: white;
    font-size: medium;
    font-weight: normal;
    margin-left: -30px;
    width: 20px;
    height: calc(100vh / %d);
    min-height: 30px;
    background: lightgray;
  }
}
`
