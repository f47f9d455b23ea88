package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaeles-project/gofuzzer/core"
	"github.com/jaeles-project/gofuzzer/core/auth"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     core.CLIName,
		Short:   "Web application fuzzer",
		Long:    fmt.Sprintf("Discover pages and inputs of a web application, then fuzz them - %s by %s", core.VERSION, core.AUTHOR),
		Example: renderExamples(),
		Version: core.VERSION,
	}
	registerGlobalFlags(cmd)
	cmd.SetVersionTemplate("Version: {{.Version}}\n")
	cmd.SilenceUsage = true

	cmd.AddCommand(newDiscoverCmd(), newTestCmd())
	return cmd
}

func registerGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("proxy", "p", "", "Proxy (Ex: http://127.0.0.1:8080)")
	flags.IntP("timeout", "m", 10, "Request timeout (second)")
	flags.StringP("user-agent", "u", "", "User Agent to use\n\trandom: random web user-agent\n\tor you can set your special user-agent")
	flags.StringP("cookie", "", "", "Cookie to use (testA=a; testB=b)")
	flags.StringArrayP("header", "H", []string{}, "Header to use (Use multiple flag to set multiple header)")
	flags.IntP("retries", "", 0, "Retry a request this many times on network errors")
	flags.BoolP("stateless", "", false, "Do not keep cookies between requests")
	flags.StringP("custom-auth", "", "", fmt.Sprintf("Log in with an auth provider first (%s)", strings.Join(auth.Names(), ", ")))
	flags.IntP("max-pages", "", core.DefaultMaxPages, "Maximum number of pages to crawl")
	flags.BoolP("sitemap", "", false, "Also seed the crawl from sitemap.xml")

	flags.StringP("output", "o", "", "Append output lines to this file")
	flags.BoolP("json", "", false, "Enable JSON output")
	flags.BoolP("debug", "", false, "Turn on debug mode")
	flags.BoolP("verbose", "v", false, "Turn on verbose")
	flags.BoolP("quiet", "q", false, "Suppress logs and only show results")
	flags.StringP("config", "", "", "YAML file with default option values")

	flags.SortFlags = false
}

func renderExamples() string {
	lines := []string{
		"  " + core.CLIName + " discover http://localhost/dvwa/ --common-words words.txt --custom-auth dvwa",
		"  " + core.CLIName + " discover http://localhost:8080/ --common-words words.txt --extensions exts.txt --sitemap",
		"  " + core.CLIName + " test http://localhost/dvwa/ --vectors vectors.txt --sensitive sensitive.txt --custom-auth dvwa",
		"  " + core.CLIName + " test http://localhost:8080/ --vectors vectors.txt --sensitive sensitive.txt --slow 800 --concurrency 4 --json",
	}
	return strings.Join(lines, "\n")
}
