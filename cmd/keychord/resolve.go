package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/app"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

func newResolveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <keys>...",
		Short: "Simulate key presses and print what each one resolves to",
		Long: `Simulate key presses through the dispatcher.

Each argument is a key descriptor; a chord may be given as one quoted
argument ("ctrl+k ctrl+c") or as two arguments. Context keys come from
the configuration and the --context flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var codes []key.Code
			for _, arg := range args {
				kb, err := key.ParseKeybinding(arg)
				if err != nil {
					return err
				}
				codes = append(codes, kb.Codes()...)
			}

			a, err := flags.openApp(cmd.ErrOrStderr(), app.Options{NoWatch: true})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			h := a.Handler()
			h.Hooks().Register(input.FuncHook{
				PostFunc: func(r input.Result, handled bool) {
					fmt.Fprintln(out, describe(h, r, handled))
				},
			}, "resolve", input.HookPriorityNormal)
			defer h.Hooks().UnregisterByName("resolve")

			ctx := h.Context().Snapshot()
			for _, c := range codes {
				if c.IsModifierOnly() {
					fmt.Fprintf(out, "%s: modifier only, ignored\n", c)
					continue
				}
				h.Dispatch(ctx, c)
			}
			a.Runner().Wait()

			if _, pending := h.PendingChord(); pending {
				fmt.Fprintln(out, "chord still pending")
			}
			return nil
		},
	}
}

// describe formats a dispatch result for display. A press that matched
// nothing but starts chords elsewhere gets a hint, since those chords are
// disabled by the current context.
func describe(h *input.Handler, r input.Result, handled bool) string {
	line := r.String()
	if handled {
		line += "  [handled]"
	}
	if r.Outcome == input.NoMatch && !r.Code.IsModifierOnly() && h.Resolver().HasChordPrefix(r.Code) {
		line += fmt.Sprintf("  (%s starts chords, none apply in this context)", r.Code)
	}
	return line
}
