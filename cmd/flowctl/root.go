package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JaimeStill/flowdeck/internal/client"
	"github.com/JaimeStill/flowdeck/internal/dashboard"
	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/JaimeStill/flowdeck/pkg/logging"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

const envPrefix = "FLOWCTL"

type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Manage workflows from the terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (toml, yaml, or json)")
	flags.String("server", "http://localhost:8080/api", "API base URL")
	flags.String("app-url", "http://localhost:8080/workflows", "dashboard URL used for shareable links")
	flags.String("token", "", "bearer token")
	flags.Int("page-size", 10, "workflows per page")
	flags.String("search-delay", "500ms", "search debounce window")
	flags.String("freshness", "30s", "how long list results are reused")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.BindPFlags(flags)

	root.AddCommand(
		a.listCmd(),
		a.searchCmd(),
		a.getCmd(),
		a.createCmd(),
		a.renameCmd(),
		a.statusCmd("activate", "Mark a workflow ACTIVE", "ACTIVE"),
		a.statusCmd("deactivate", "Mark a workflow INACTIVE", "INACTIVE"),
		a.deleteCmd(),
	)

	return root
}

func (a *app) loadConfig() error {
	path := a.v.GetString("config")
	if path == "" {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func (a *app) logger() *slog.Logger {
	cfg := logging.Config{Level: logging.Level(a.v.GetString("log-level"))}
	if err := cfg.Finalize(nil); err != nil {
		cfg = logging.Config{Level: logging.LevelWarn, Format: logging.FormatText}
	}
	return logging.NewWithWriter(&cfg, a.errOut)
}

// view assembles a dashboard view over loc. A nil loc starts from the
// configured dashboard URL.
func (a *app) view(loc listview.Location) (*dashboard.View, error) {
	token := a.v.GetString("token")
	if token == "" {
		return nil, fmt.Errorf("bearer token required: use --token or %s_TOKEN", envPrefix)
	}

	cfg := dashboard.Config{
		SearchDelay: a.v.GetString("search-delay"),
		Freshness:   a.v.GetString("freshness"),
	}
	if err := cfg.Finalize(nil); err != nil {
		return nil, err
	}

	page := pagination.Config{DefaultPageSize: a.v.GetInt("page-size")}
	if err := page.Finalize(nil); err != nil {
		return nil, fmt.Errorf("page-size: %w", err)
	}

	if loc == nil {
		u, err := listview.NewURLLocation(a.v.GetString("app-url"))
		if err != nil {
			return nil, fmt.Errorf("app-url: %w", err)
		}
		loc = u
	}

	backend := client.New(a.v.GetString("server"), token)
	notifier := dashboard.NewWriterNotifier(a.errOut)

	return dashboard.NewView(backend, loc, notifier, cfg, page, nil, a.logger()), nil
}
