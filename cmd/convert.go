package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/config"
	"github.com/DPDmancul/latex-songs-to-html/constants"
	"github.com/DPDmancul/latex-songs-to-html/render"
)

var (
	convertLang      string
	convertToc       string
	convertTranspose int
)

func init() {
	convertCmd.Flags().StringVar(&convertLang, "lang", "", "page language (overrides config)")
	convertCmd.Flags().StringVar(&convertToc, "toc", "", "table of contents title (overrides config)")
	convertCmd.Flags().IntVar(&convertTranspose, "transpose", 0, "semitones to transpose every song (overrides config)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [book.tex]",
	Short: "Converts a songbook to a single HTML page",
	Long:  `Converts a songbook to a single HTML page`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) == 1 {
			cfg.Source = args[0]
		}
		if convertLang != "" {
			cfg.Language = convertLang
		}
		if convertToc != "" {
			cfg.TocTitle = convertToc
		}
		if cmd.Flags().Changed("transpose") {
			cfg.Transpose = convertTranspose
		}
		cobra.CheckErr(Convert(cfg))
	},
}

// Convert renders the configured book and writes the HTML page into the
// output directory.
func Convert(cfg config.Config) error {
	sections, err := loadBook(cfg)
	if err != nil {
		return err
	}
	page, err := render.Book(sections, render.Options{
		Language: cfg.Language,
		TocTitle: cfg.TocTitle,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output, 0o777); err != nil {
		return err
	}
	out := filepath.Join(cfg.Output, constants.OutputPage)
	if err := os.WriteFile(out, []byte(page), 0o666); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
