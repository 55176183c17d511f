//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ericchiang/css"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
	"kr.dev/diff"

	"github.com/DPDmancul/latex-songs-to-html/cmd"
	"github.com/DPDmancul/latex-songs-to-html/config"
	"github.com/DPDmancul/latex-songs-to-html/constants"
	"github.com/DPDmancul/latex-songs-to-html/model"
)

const bookTex = `\songsection{Canzoniere}
\begin{songs}
\input{uno}
\input{due}
\end{songs}
`

const unoTex = `\beginsong{Uno}[by={Autore}]
\beginverse
Hello\[C] world
\endverse
\endsong
`

const dueTex = `\beginsong{Due}
\beginchorus
ritornello
\endchorus
\endsong
`

func writeBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range map[string]string{
		"book.tex": bookTex,
		"uno.tex":  unoTex,
		"due.tex":  dueTex,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := writeBook(t)
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "book.tex")
	cfg.Output = filepath.Join(dir, "out")
	return cfg
}

func query(t *testing.T, doc *html.Node, selector string) []*html.Node {
	t.Helper()
	sel, err := css.Parse(selector)
	if err != nil {
		t.Fatal(err)
	}
	return sel.Select(doc)
}

func TestConvertWritesPage(t *testing.T) {
	cfg := testConfig(t)

	err := cmd.Convert(cfg)
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Output, constants.OutputPage))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}

	titles := query(t, doc, "title")
	if assert.Len(t, titles, 1) && titles[0].FirstChild != nil {
		assert.Equal(t, "Canzoniere", titles[0].FirstChild.Data)
	}
	assert.Len(t, query(t, doc, "article.song"), 2)
	assert.Len(t, query(t, doc, "nav ol li"), 2)
}

func TestServeSongsOverview(t *testing.T) {
	router, err := cmd.NewRouter(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/songs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Book
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := model.Book{
		Title: "Canzoniere",
		Sections: []model.Section{{
			Songs: []model.SongOverview{
				{Number: 1, Title: "Uno", Author: "Autore", HasChords: true},
				{Number: 2, Title: "Due", HasChords: false},
			},
		}},
	}
	diff.Test(t, t.Errorf, got, want)
}

func TestServeSongTransposed(t *testing.T) {
	router, err := cmd.NewRouter(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/songs/1?transpose=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.SongDetail
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, got.Transpose)
	if assert.Len(t, got.Verses, 1) && assert.Len(t, got.Verses[0].Lines, 1) {
		line := got.Verses[0].Lines[0]
		assert.Equal(t, []string{"Hello", "&nbsp;world"}, line.Lyrics)
		assert.Equal(t, []string{"", "Re"}, line.Chords)
	}

	// the shared song must come back untransposed
	resp2, err := http.Get(srv.URL + "/api/songs/1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var plain model.SongDetail
	if err := json.NewDecoder(resp2.Body).Decode(&plain); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"", "Do"}, plain.Verses[0].Lines[0].Chords)
}

func TestServeUnknownSong(t *testing.T) {
	router, err := cmd.NewRouter(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/songs/99")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var e model.Error
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	assert.NotEmpty(t, e.Error)
}

func TestServePage(t *testing.T) {
	router, err := cmd.NewRouter(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	doc, err := html.Parse(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	h1 := query(t, doc, "h1")
	if assert.Len(t, h1, 1) && h1[0].FirstChild != nil {
		assert.Equal(t, "Canzoniere", h1[0].FirstChild.Data)
	}
}
