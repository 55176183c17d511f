package main

import "github.com/DPDmancul/latex-songs-to-html/cmd"

func main() {
	cmd.Execute()
}
