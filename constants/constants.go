package constants

import "os"

const (
	DefaultLanguage = "en"
	DefaultTocTitle = "Table of contents"
	DefaultAddr     = ":8080"
	DefaultOutDir   = "out"
	DefaultConfig   = "songbook.yaml"
)

// OutputPage is the file name of the rendered book inside the output dir.
const OutputPage = "index.html"

func GetConfigPath() string {
	path := os.Getenv("SONGBOOK_CONFIG")
	if path == "" {
		path = DefaultConfig
	}
	return path
}

func GetAddr() string {
	addr := os.Getenv("SONGBOOK_ADDR")
	if addr == "" {
		addr = DefaultAddr
	}
	return addr
}
