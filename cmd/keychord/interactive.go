package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/app"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// quitCommand ends the interactive session.
const quitCommand = "app.quit"

const maxLogLines = 200

func newInteractiveCmd(flags *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Dispatch terminal key presses live",
		Long: `Capture key presses from the terminal and show what each resolves to.

The override file is watched and reloaded while the session runs.
Invoking app.quit (ctrl+q by default) ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := &view{}
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			a, err := flags.openApp(v, app.Options{
				Registerer: reg,
				Diagnostics: keymap.DiagnosticFunc(func(d keymap.Diagnostic) {
					v.add(d.String())
				}),
			})
			if err != nil {
				return err
			}
			defer a.Close()

			if metricsAddr == "" {
				metricsAddr = a.Config().MetricsAddr
			}
			if metricsAddr != "" {
				srv := serveMetrics(metricsAddr, reg, v)
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(ctx)
				}()
			}

			return runInteractive(a, v)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, v *view) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			v.add("metrics server: " + err.Error())
		}
	}()
	v.add("serving metrics on " + addr + "/metrics")
	return srv
}

func runInteractive(a *app.Application, v *view) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v.setScreen(screen)
	defer v.setScreen(nil)

	quit := make(chan struct{})
	var once sync.Once
	a.Commands().Unregister(quitCommand)
	_ = a.Commands().RegisterFunc(quitCommand, func(context.Context, any) error {
		once.Do(func() { close(quit) })
		screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	h := a.Handler()
	h.Hooks().Register(input.FuncHook{
		PostFunc: func(r input.Result, handled bool) {
			v.add(describe(h, r, handled))
		},
	}, "interactive", input.HookPriorityLow)
	defer h.Hooks().UnregisterByName("interactive")

	for {
		v.draw(h)

		select {
		case <-quit:
			return nil
		default:
		}

		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			h.DispatchEvent(key.FromTcell(ev))
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// view is the interactive screen state. It doubles as the log writer so
// log lines land in the on-screen history instead of the terminal.
type view struct {
	mu     sync.Mutex
	screen tcell.Screen
	lines  []string
}

var _ io.Writer = (*view)(nil)

func (v *view) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		v.add(line)
	}
	return len(p), nil
}

func (v *view) setScreen(s tcell.Screen) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screen = s
}

func (v *view) add(line string) {
	v.mu.Lock()
	v.lines = append(v.lines, line)
	if len(v.lines) > maxLogLines {
		v.lines = v.lines[len(v.lines)-maxLogLines:]
	}
	s := v.screen
	v.mu.Unlock()

	if s != nil {
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (v *view) draw(h *input.Handler) {
	ctx := formatContext(h.Context().Snapshot())
	pending, hasPending := h.PendingChord()

	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.screen
	if s == nil {
		return
	}

	s.Clear()
	width, height := s.Size()
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	putLine(s, 0, width, bold, "keychord interactive (app.quit to exit)")
	putLine(s, 1, width, dim, "context: "+ctx)
	if hasPending {
		putLine(s, 2, width, bold, fmt.Sprintf("pending: %s ...", pending))
	} else {
		putLine(s, 2, width, dim, "pending: none")
	}

	rows := height - 4
	if rows <= 0 {
		s.Show()
		return
	}
	start := 0
	if len(v.lines) > rows {
		start = len(v.lines) - rows
	}
	for i, line := range v.lines[start:] {
		putLine(s, 4+i, width, tcell.StyleDefault, line)
	}
	s.Show()
}

func putLine(s tcell.Screen, y, width int, style tcell.Style, text string) {
	x := 0
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func formatContext(ctx map[string]any) string {
	if len(ctx) == 0 {
		return "(empty)"
	}
	names := make([]string, 0, len(ctx))
	for name := range ctx {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, ctx[name])
	}
	return strings.Join(parts, " ")
}
