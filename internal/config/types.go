package config

import "time"

// ScanConfig holds everything the CLI resolved from flags and the optional
// YAML file. List fields are file paths; cmd reads them.
type ScanConfig struct {
	Target string

	CommonWords    string
	Extensions     string
	Vectors        string
	Sensitive      string
	SanitizedChars string
	Slow           time.Duration

	MaxPages    int
	Sitemap     bool
	Concurrency int
	Rate        float64

	CustomAuth string
	Stateless  bool
	Proxy      string
	Timeout    time.Duration
	UserAgent  string
	Cookie     string
	Headers    []string
	Retries    int

	Output     string
	JSONOutput bool
	Debug      bool
	Verbose    bool
	Quiet      bool
	ConfigFile string
}

// FileConfig is the YAML layout accepted by --config. Zero values mean
// "not set" and leave the flag default alone.
type FileConfig struct {
	Proxy       string   `yaml:"proxy"`
	Timeout     int      `yaml:"timeout"`
	UserAgent   string   `yaml:"user_agent"`
	Cookie      string   `yaml:"cookie"`
	Headers     []string `yaml:"headers"`
	Retries     int      `yaml:"retries"`
	Stateless   bool     `yaml:"stateless"`
	CustomAuth  string   `yaml:"custom_auth"`
	MaxPages    int      `yaml:"max_pages"`
	Sitemap     bool     `yaml:"sitemap"`
	Output      string   `yaml:"output"`
	JSON        bool     `yaml:"json"`
	Concurrency int      `yaml:"concurrency"`
	Rate        float64  `yaml:"rate"`
	Slow        int      `yaml:"slow"`
}
