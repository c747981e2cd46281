package config

import "gopkg.in/yaml.v3"

var defaults Config

func init() {
	yamlData := []byte(`version: v1

document:
  # Holds the persistent IDs of files and folders.
  sidecar: ".FileMap.plist"
  # Entry point passed to the compiler.
  main: "main.typ"
  text_extensions:
    - ".typ"
    - ".txt"
    - ".md"
    - ".markdown"
    - ".bib"
    - ".csv"
    - ".tsv"
    - ".json"
    - ".yaml"
    - ".yml"
    - ".toml"
    - ".xml"
    - ".svg"
    - ".html"
    - ".css"
    - ".tex"
  ignore:
    - ".git"
    - ".DS_Store"

navigator:
  # Glob patterns of names hidden from listings.
  hidden:
    - ".*"

undo:
  levels: 100

compiler:
  binary: "typst"
  timeout: 30s

preview:
  output: "main.pdf"
  debounce: 200ms

log:
  enabled: false
  verbose: false
`)

	if err := yaml.Unmarshal(yamlData, &defaults); err != nil {
		panic(err)
	}
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaults
	cfg.Document.TextExtensions = append([]string(nil), defaults.Document.TextExtensions...)
	cfg.Document.Ignore = append([]string(nil), defaults.Document.Ignore...)
	cfg.Navigator.Hidden = append([]string(nil), defaults.Navigator.Hidden...)
	return &cfg
}
