package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DPDmancul/latex-songs-to-html/publish"
)

func init() {
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Uploads the rendered songbook to S3",
	Long:  `Uploads the rendered songbook to S3`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		count, err := publish.Upload(cfg.Output, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
		cobra.CheckErr(err)
		fmt.Printf("Uploaded %d files\n", count)
	},
}
