package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/app"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input/keymap"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	keybindings string
	logLevel    string
	context     []string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "keychord",
		Short: "Keybinding resolution engine",
		Long: `keychord resolves key presses to commands using a default rule set
and a user override file, with two-press chords and context conditions.

Examples:
  keychord defaults                        # print the default keybindings
  keychord lookup file.save                # show keys bound to a command
  keychord resolve ctrl+k s -c editorFocus # simulate key presses
  keychord interactive                     # dispatch live terminal input`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "configuration file")
	pf.StringVarP(&flags.keybindings, "keybindings", "k", "", "override file (replaces the configured one)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringArrayVarP(&flags.context, "context", "c", nil, "context key as name or name=value (repeatable)")

	root.AddCommand(
		newDefaultsCmd(flags),
		newLookupCmd(flags),
		newResolveCmd(flags),
		newInteractiveCmd(flags),
	)
	return root
}

// openApp loads the configuration, applies the global flags and starts the
// application.
func (f *globalFlags) openApp(logOutput io.Writer, opts app.Options) (*app.Application, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.keybindings != "" {
		cfg.Keybindings = f.keybindings
	}
	ctx, err := parseContext(f.context)
	if err != nil {
		return nil, err
	}
	if len(ctx) > 0 && cfg.Context == nil {
		cfg.Context = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		cfg.Context[k] = v
	}

	opts.Config = &cfg
	opts.LogOutput = logOutput
	opts.LogLevel = f.logLevel
	return app.New(opts)
}

// parseContext turns "name" and "name=value" flags into context keys.
// Values "true" and "false" become booleans and numbers become float64.
func parseContext(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, hasValue := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid context %q", p)
		}
		if !hasValue {
			out[name] = true
			continue
		}
		out[name] = parseValue(value)
	}
	return out, nil
}

func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func newDefaultsCmd(flags *globalFlags) *cobra.Command {
	var noUnbound bool

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default keybindings in canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.openApp(cmd.ErrOrStderr(), app.Options{NoWatch: true})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			defaults := a.Defaults().Snapshot()
			if err := keymap.RenderDefaults(out, defaults); err != nil {
				return err
			}
			if noUnbound {
				return nil
			}
			// The footer complements the listing above, so it ignores
			// removals made by the override file.
			unbound := keymap.NewResolver(defaults).UnboundCommands(a.Commands().IDs())
			return keymap.RenderUnbound(out, unbound)
		},
	}
	cmd.Flags().BoolVar(&noUnbound, "no-unbound", false, "omit the list of unbound commands")
	return cmd
}

func newLookupCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <command>...",
		Short: "Show the keybindings of commands, most recent first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd.ErrOrStderr(), app.Options{NoWatch: true})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				kbs := a.Handler().LookupKeybindings(id)
				if len(kbs) == 0 {
					fmt.Fprintf(out, "%s: not bound\n", id)
					continue
				}
				names := make([]string, len(kbs))
				for i, kb := range kbs {
					names[i] = kb.String()
				}
				fmt.Fprintf(out, "%s: %s\n", id, strings.Join(names, ", "))
			}
			return nil
		},
	}
}
