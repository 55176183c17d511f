package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/model"
	"github.com/DPDmancul/latex-songs-to-html/song"
)

var inspectTranspose int

func init() {
	inspectCmd.Flags().IntVar(&inspectTranspose, "transpose", 0, "semitones to transpose")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect song.tex",
	Short: "Parses a single song and prints it as JSON",
	Long:  `Parses a single song and prints it as JSON`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(inspect(args[0]))
	},
}

func inspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sg, err := song.Parse(f, 1)
	if err != nil {
		return err
	}
	sg.Transpose(inspectTranspose)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(model.FromSong(sg, inspectTranspose))
}
