package core

import "time"

const (
	CLIName = "gofuzzer"
	AUTHOR  = "@jaeles-project"
	VERSION = "v0.1.0"
)

const (
	DefaultMaxPages      = 100
	DefaultSlowThreshold = 500 * time.Millisecond
	FetchTimeout         = 10 * time.Second
	HeadTimeout          = 3 * time.Second
	EnumerateTimeout     = 5 * time.Second
	maxBodySize          = 10 << 20
)

// DefaultExtensions are appended to every guessed word.
var DefaultExtensions = []string{".php", ""}
