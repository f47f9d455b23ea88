package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	cmd *cobra.Command
}

func NewLoader(cmd *cobra.Command) Loader {
	return Loader{cmd: cmd}
}

// Load reads every known flag into a ScanConfig. Flags a subcommand does not
// define keep their zero value. When --config names a YAML file its values
// fill in whatever was not set explicitly on the command line.
func (l Loader) Load(args []string) (ScanConfig, error) {
	flags := l.cmd.Flags()
	var cfg ScanConfig

	if len(args) > 0 {
		cfg.Target = strings.TrimSpace(args[0])
	}

	getBool := func(name string) (bool, error) {
		if flags.Lookup(name) == nil {
			return false, nil
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return false, fmt.Errorf("get bool %s: %w", name, err)
		}
		return v, nil
	}
	getInt := func(name string) (int, error) {
		if flags.Lookup(name) == nil {
			return 0, nil
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return 0, fmt.Errorf("get int %s: %w", name, err)
		}
		return v, nil
	}
	getFloat := func(name string) (float64, error) {
		if flags.Lookup(name) == nil {
			return 0, nil
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return 0, fmt.Errorf("get float %s: %w", name, err)
		}
		return v, nil
	}
	getString := func(name string) (string, error) {
		if flags.Lookup(name) == nil {
			return "", nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return "", fmt.Errorf("get string %s: %w", name, err)
		}
		return strings.TrimSpace(v), nil
	}

	var err error

	if cfg.CommonWords, err = getString("common-words"); err != nil {
		return cfg, err
	}
	if cfg.Extensions, err = getString("extensions"); err != nil {
		return cfg, err
	}
	if cfg.Vectors, err = getString("vectors"); err != nil {
		return cfg, err
	}
	if cfg.Sensitive, err = getString("sensitive"); err != nil {
		return cfg, err
	}
	if cfg.SanitizedChars, err = getString("sanitized-chars"); err != nil {
		return cfg, err
	}
	if v, err := getInt("slow"); err != nil {
		return cfg, err
	} else {
		cfg.Slow = time.Duration(v) * time.Millisecond
	}
	if cfg.MaxPages, err = getInt("max-pages"); err != nil {
		return cfg, err
	}
	if cfg.Sitemap, err = getBool("sitemap"); err != nil {
		return cfg, err
	}
	if cfg.Concurrency, err = getInt("concurrency"); err != nil {
		return cfg, err
	}
	if cfg.Rate, err = getFloat("rate"); err != nil {
		return cfg, err
	}
	if cfg.CustomAuth, err = getString("custom-auth"); err != nil {
		return cfg, err
	}
	if cfg.Stateless, err = getBool("stateless"); err != nil {
		return cfg, err
	}
	if cfg.Proxy, err = getString("proxy"); err != nil {
		return cfg, err
	}
	if v, err := getInt("timeout"); err != nil {
		return cfg, err
	} else {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	if cfg.UserAgent, err = getString("user-agent"); err != nil {
		return cfg, err
	}
	if cfg.Cookie, err = getString("cookie"); err != nil {
		return cfg, err
	}
	if flags.Lookup("header") != nil {
		if cfg.Headers, err = flags.GetStringArray("header"); err != nil {
			return cfg, fmt.Errorf("get string array header: %w", err)
		}
	}
	if cfg.Retries, err = getInt("retries"); err != nil {
		return cfg, err
	}
	if cfg.Output, err = getString("output"); err != nil {
		return cfg, err
	}
	if cfg.JSONOutput, err = getBool("json"); err != nil {
		return cfg, err
	}
	if cfg.Debug, err = getBool("debug"); err != nil {
		return cfg, err
	}
	if cfg.Verbose, err = getBool("verbose"); err != nil {
		return cfg, err
	}
	if cfg.Quiet, err = getBool("quiet"); err != nil {
		return cfg, err
	}
	if cfg.ConfigFile, err = getString("config"); err != nil {
		return cfg, err
	}

	if cfg.ConfigFile != "" {
		file, err := ReadFile(cfg.ConfigFile)
		if err != nil {
			return cfg, err
		}
		applyFile(&cfg, file, flags)
	}

	return cfg, nil
}

// ReadFile parses a YAML config file. A leading ~ is expanded.
func ReadFile(path string) (FileConfig, error) {
	var file FileConfig
	expanded, err := homedir.Expand(path)
	if err != nil {
		return file, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return file, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

func applyFile(cfg *ScanConfig, file FileConfig, flags *pflag.FlagSet) {
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}

	if file.Proxy != "" && unset("proxy") {
		cfg.Proxy = file.Proxy
	}
	if file.Timeout > 0 && unset("timeout") {
		cfg.Timeout = time.Duration(file.Timeout) * time.Second
	}
	if file.UserAgent != "" && unset("user-agent") {
		cfg.UserAgent = file.UserAgent
	}
	if file.Cookie != "" && unset("cookie") {
		cfg.Cookie = file.Cookie
	}
	if len(file.Headers) > 0 && unset("header") {
		cfg.Headers = file.Headers
	}
	if file.Retries > 0 && unset("retries") {
		cfg.Retries = file.Retries
	}
	if file.Stateless && unset("stateless") {
		cfg.Stateless = true
	}
	if file.CustomAuth != "" && unset("custom-auth") {
		cfg.CustomAuth = file.CustomAuth
	}
	if file.MaxPages > 0 && unset("max-pages") {
		cfg.MaxPages = file.MaxPages
	}
	if file.Sitemap && unset("sitemap") {
		cfg.Sitemap = true
	}
	if file.Output != "" && unset("output") {
		cfg.Output = file.Output
	}
	if file.JSON && unset("json") {
		cfg.JSONOutput = true
	}
	// Test-only settings apply only where the subcommand defines them.
	if file.Concurrency > 0 && flags.Lookup("concurrency") != nil && unset("concurrency") {
		cfg.Concurrency = file.Concurrency
	}
	if file.Rate > 0 && flags.Lookup("rate") != nil && unset("rate") {
		cfg.Rate = file.Rate
	}
	if file.Slow > 0 && flags.Lookup("slow") != nil && unset("slow") {
		cfg.Slow = time.Duration(file.Slow) * time.Millisecond
	}
}
