package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/midiout"
)

func init() {
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi [book.tex]",
	Short: "Exports the chord progressions as MIDI files",
	Long:  `Exports the chord progressions as MIDI files`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) == 1 {
			cfg.Source = args[0]
		}
		sections, err := loadBook(cfg)
		cobra.CheckErr(err)
		cobra.CheckErr(os.MkdirAll(cfg.Output, 0o777))
		count, err := midiout.WriteBook(sections, cfg.Output)
		cobra.CheckErr(err)
		fmt.Printf("Wrote %d MIDI files to %s\n", count, cfg.Output)
	},
}
