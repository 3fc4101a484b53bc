// Package cmd defines the fff command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JakeFAU/fff/internal/config"
	"github.com/JakeFAU/fff/internal/policy/delay"
	"github.com/JakeFAU/fff/internal/scan"
)

// Version is stamped at build time with -ldflags "-X github.com/JakeFAU/fff/cmd.Version=...".
var Version = "dev"

// streams are the process's standard streams; tests substitute buffers.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// options holds the flags that are not routed through Viper.
type options struct {
	configFile string
	headers    []string
	saveStatus []int
}

// newRootCmd creates and configures the root command.
func newRootCmd(std streams) *cobra.Command {
	v := config.New()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fff",
		Short: "Fetch many URLs from stdin and save the responses to disk.",
		Long: `fff reads one URL per line from standard input and requests each of them
concurrently. Responses that pass the save policy are written below the output
directory as <host>/<path>/<hash>.body with a matching .headers file.

Each URL prints one line to stdout: "<url> <status>", or "<url> Saved (<status>)"
when the response was written. Errors are logged to stderr.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), v, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, std)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(normalizeFlagName)
	flags.SortFlags = false

	flags.StringP(config.KeyBody, "b", "", "request body; a GET with a body is sent as POST")
	flags.IntP(config.KeyDelay, "d", int(delay.DefaultDelay/time.Millisecond), "delay in milliseconds before each request")
	flags.StringArrayVarP(&opts.headers, config.KeyHeader, "H", nil, "request header \"Name: value\" (repeatable)")
	flags.Bool(config.KeyIgnoreHTML, false, "do not save responses that look like HTML")
	flags.Bool(config.KeyIgnoreEmpty, false, "do not save responses with a blank body")
	flags.BoolP(config.KeyKeepAlive, "k", false, "reuse connections between requests")
	flags.StringP(config.KeyMethod, "m", scan.DefaultMethod, "HTTP method")
	flags.StringP(config.KeyMatch, "M", "", "save only responses whose body contains this string")
	flags.StringP(config.KeyOutput, "o", "out", "output directory")
	flags.IntSliceVarP(&opts.saveStatus, config.KeySaveStatus, "s", nil, "save responses with this status code (repeatable)")
	flags.BoolP(config.KeySave, "S", false, "save every response")
	flags.StringP(config.KeyProxy, "x", "", "proxy URL (http, https, socks5)")

	flags.StringVar(&opts.configFile, "config", "", "config file (YAML, TOML or JSON)")
	flags.String(config.KeyMetricsAddr, "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9102")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.Bool(config.KeyDevLogs, false, "human-readable development logs")
	flags.Bool(config.KeyNoColor, false, "disable colored status output")

	for _, key := range []string{
		config.KeyBody,
		config.KeyDelay,
		config.KeyIgnoreHTML,
		config.KeyIgnoreEmpty,
		config.KeyKeepAlive,
		config.KeyMethod,
		config.KeyMatch,
		config.KeyOutput,
		config.KeySave,
		config.KeyProxy,
		config.KeyMetricsAddr,
		config.KeyLogLevel,
		config.KeyDevLogs,
		config.KeyNoColor,
	} {
		// Lookup never returns nil here: every key was registered above.
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	return cmd
}

// normalizeFlagName accepts --keep-alives as a spelling of --keep-alive.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "keep-alives" {
		name = config.KeyKeepAlive
	}
	return pflag.NormalizedName(name)
}

// loadConfig resolves flags, environment and the optional config file.
// Repeatable flags bypass Viper, which would split header values on commas.
func loadConfig(flags *pflag.FlagSet, v *viper.Viper, opts *options) (config.Config, error) {
	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if flags.Changed(config.KeyHeader) {
		cfg.Headers = append([]string(nil), opts.headers...)
	}
	if flags.Changed(config.KeySaveStatus) {
		cfg.SaveStatus = append([]int(nil), opts.saveStatus...)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Execute is the main entry point. It exits non-zero only when the run could
// not start.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	std := streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if err := newRootCmd(std).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fff: %v\n", err)
		stop()
		os.Exit(1)
	}
}
