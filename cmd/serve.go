package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/config"
	"github.com/DPDmancul/latex-songs-to-html/model"
	"github.com/DPDmancul/latex-songs-to-html/render"
	"github.com/DPDmancul/latex-songs-to-html/song"
	"github.com/DPDmancul/latex-songs-to-html/util"
)

var serveWatch bool

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "rebuild when the source changes")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [book.tex]",
	Short: "Serves the rendered songbook with a JSON API",
	Long:  `Serves the rendered songbook with a JSON API`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) == 1 {
			cfg.Source = args[0]
		}
		cobra.CheckErr(serve(cfg))
	},
}

// server holds the parsed book and the rendered page. rebuild swaps both under
// the lock; per-request transposition also takes the write lock because it
// temporarily shifts the shared songs.
type server struct {
	cfg      config.Config
	mu       sync.RWMutex
	sections []book.Section
	page     string
}

func newServer(cfg config.Config) (*server, error) {
	s := &server{cfg: cfg}
	return s, s.rebuild()
}

// NewRouter builds the HTTP handler for the given configuration. It is used by
// the serve command and by the end-to-end tests.
func NewRouter(cfg config.Config) (http.Handler, error) {
	srv, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	return srv.router(), nil
}

func (s *server) rebuild() error {
	sections, err := loadBook(s.cfg)
	if err != nil {
		return err
	}
	page, err := render.Book(sections, render.Options{
		Language: s.cfg.Language,
		TocTitle: s.cfg.TocTitle,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sections = sections
	s.page = page
	s.mu.Unlock()
	return nil
}

func (s *server) router() http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/", s.handlePage).Methods("GET")
	r.HandleFunc("/api/songs", s.handleSongs).Methods("GET")
	r.HandleFunc("/api/songs/{number}", s.handleSong).Methods("GET")
	return cors.Default().Handler(r)
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (s *server) handleSongs(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	b := model.FromBook(s.sections)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, b)
}

func (s *server) handleSong(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Error{Error: "invalid song number"})
		return
	}
	transpose := 0
	if v := r.URL.Query().Get("transpose"); v != "" {
		transpose, err = strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.Error{Error: "invalid transpose"})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sg := s.findSong(number)
	if sg == nil {
		writeJSON(w, http.StatusNotFound, model.Error{Error: fmt.Sprintf("no song #%d", number)})
		return
	}
	sg.Transpose(transpose)
	d := model.FromSong(sg, transpose)
	sg.Transpose(-transpose)
	writeJSON(w, http.StatusOK, d)
}

func (s *server) findSong(number int) *song.Song {
	for _, sec := range s.sections {
		for _, sg := range sec.Songs {
			if sg.Number == number {
				return sg
			}
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// watch polls the source directory for changed .tex files and rebuilds,
// debounced so a burst of saves triggers a single rebuild.
func (s *server) watch() {
	deb := debounce.New(500 * time.Millisecond)
	last := latestMtime(filepath.Dir(s.cfg.Source))
	for {
		time.Sleep(time.Second)
		latest := latestMtime(filepath.Dir(s.cfg.Source))
		if latest.After(last) {
			last = latest
			deb(func() {
				fmt.Println("Source changed, rebuilding")
				if err := s.rebuild(); err != nil {
					fmt.Printf("Rebuild failed: %v\n", err)
				}
			})
		}
	}
}

func latestMtime(dir string) time.Time {
	var latest time.Time
	files, err := util.GatherFiles(dir, []string{".tex"}, 0)
	if err != nil {
		return latest
	}
	for _, p := range files {
		if info, err := os.Stat(p); err == nil && info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}

func serve(cfg config.Config) error {
	srv, err := newServer(cfg)
	if err != nil {
		return err
	}
	if serveWatch {
		go srv.watch()
	}
	fmt.Printf("Listening on %s\n", cfg.Serve.Addr)
	return http.ListenAndServe(cfg.Serve.Addr, srv.router())
}
