// Package config loads the optional songbook configuration file. Every field
// has a default, so running without a file works out of the box.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DPDmancul/latex-songs-to-html/constants"
)

type Serve struct {
	Addr string `yaml:"addr"`
}

type S3 struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	Source    string `yaml:"source"`
	Output    string `yaml:"output"`
	Language  string `yaml:"language"`
	TocTitle  string `yaml:"tocTitle"`
	Transpose int    `yaml:"transpose"`
	Serve     Serve  `yaml:"serve"`
	S3        S3     `yaml:"s3"`
}

func Default() Config {
	return Config{
		Output:   constants.DefaultOutDir,
		Language: constants.DefaultLanguage,
		TocTitle: constants.DefaultTocTitle,
		Serve:    Serve{Addr: constants.GetAddr()},
	}
}

// Load reads the configuration at path over the defaults. A missing file is
// not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
