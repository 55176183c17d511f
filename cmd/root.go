package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/config"
	"github.com/DPDmancul/latex-songs-to-html/constants"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "latex-songs-to-html",
	Short: "Converts a LaTeX songs songbook to HTML",
	Long: `Converts a songbook written with the LaTeX songs package into a single
HTML page with aligned chord and lyric rows, plus JSON and MIDI exports.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = constants.GetConfigPath()
	}
	cfg, err := config.Load(path)
	cobra.CheckErr(err)
	return cfg
}

// loadBook parses the configured source book and applies the global
// transposition.
func loadBook(cfg config.Config) ([]book.Section, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("no source book given")
	}
	sections, err := book.Load(cfg.Source)
	if err != nil {
		return nil, err
	}
	if cfg.Transpose != 0 {
		for _, sec := range sections {
			for _, s := range sec.Songs {
				s.Transpose(cfg.Transpose)
			}
		}
	}
	return sections, nil
}
