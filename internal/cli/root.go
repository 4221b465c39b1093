// Package cli holds the hostgrip command line
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hostgrip/internal/config"
	"hostgrip/internal/eventbus"
	"hostgrip/internal/hostlist"
	"hostgrip/internal/logging"
	"hostgrip/internal/navigation"
	"hostgrip/internal/ui"
)

// Version is set at build time with -ldflags "-X hostgrip/internal/cli.Version=..."
var Version = "dev"

type flags struct {
	configPath string
	hosts      string
	target     string
	baseURL    string
	field      string
	hostFlags  []string
}

// NewRootCommand builds the hostgrip command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&flags{})
}

func newRootCommand(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:   "hostgrip",
		Short: "Quick search over monitored hosts",
		Long: `hostgrip searches a list of monitored hosts as you type and opens the
chosen host's view in the monitoring web interface.

Keys:
  ↑/↓         Move the selection
  Enter       Open the selected host, or the host list for the typed text
  Esc         Close the result list
  ctrl+space  Toggle the result list
  F1          Help`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, f)
		},
	}

	fl := root.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	fl.StringVar(&f.hosts, "hosts", "", "host list: a .json, .yaml or .toml file, or sqlite://path")
	fl.StringVarP(&f.target, "target", "t", "", "frame the host views open in")
	fl.StringVar(&f.baseURL, "base-url", "", "base URL of the monitoring web interface")
	fl.StringVar(&f.field, "field", "", "identifier of the search field")
	fl.StringArrayVar(&f.hostFlags, "host", nil, "search this host instead of the host list, as site:name (repeatable)")

	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hostgrip %s\n", Version)
		},
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command line overrides.
// The file itself never sees the overrides.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	svc := config.NewConfigService()
	if f.configPath != "" {
		svc = config.NewConfigServiceAt(f.configPath)
	}
	cfg, err := loadOrCreateConfig(svc)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("hosts") {
		cfg.Hosts = f.hosts
	}
	if changed("target") && f.target != "" {
		cfg.TargetFrame = f.target
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("field") && f.field != "" {
		cfg.FieldID = f.field
	}
	return cfg, nil
}

// loadOrCreateConfig loads the config file, writing the defaults on first
// run so there is a file to edit. Failing to write it is only a warning.
func loadOrCreateConfig(svc config.ConfigService) (*config.Config, error) {
	if _, err := os.Stat(svc.Path()); err == nil || !os.IsNotExist(err) {
		return svc.Load()
	}

	cfg := config.DefaultConfig()
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write default config: %v\n", err)
	}
	return cfg, nil
}

// openSource picks the host source: --host flags win over the configured
// host list. A host list that cannot be opened is logged and leaves the
// search without hosts.
func openSource(cfg *config.Config, f *flags) (hostlist.Source, error) {
	if len(f.hostFlags) > 0 {
		static := make(hostlist.Static, 0, len(f.hostFlags))
		for _, v := range f.hostFlags {
			h, err := hostlist.ParseHostFlag(v)
			if err != nil {
				return nil, err
			}
			static = append(static, h)
		}
		return static, nil
	}

	source, err := hostlist.Open(cfg.Hosts)
	if err != nil {
		logging.Log.WithError(err).WithField("hosts", cfg.Hosts).Warn("no usable host list")
		return nil, nil
	}
	return source, nil
}

func run(ctx context.Context, cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logCloser, err := logging.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := eventbus.New()
	defer bus.Close()

	source, err := openSource(cfg, f)
	if err != nil {
		return err
	}
	// loaded by the model's Init, after the forwarding below is subscribed
	store := hostlist.NewStore(source, bus)

	frames, err := navigation.NewFrames(cfg.BaseURL, bus)
	if err != nil {
		return err
	}
	nav := navigation.NewBrowserNavigator(frames, cfg.OpenCommand)

	model := ui.NewModel(ctx, ui.Options{
		Config:    cfg,
		Store:     store,
		Navigator: nav,
		Bus:       bus,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventHostsLoaded,
		eventbus.EventNavigated,
		eventbus.EventError,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}

	logging.Log.WithField("version", Version).Info("starting UI")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run program")
	}
	logging.Log.Info("UI exited")
	return nil
}
