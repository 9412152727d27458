// Command controlpanel is the bubbletea TUI from spec.md section 6: a
// live view of the current target and planned path plus a pause
// toggle, backed by the same internal/core.Bot and internal/transport
// client cmd/bot uses. Grounded on brensch-snek2/executor/main.go's
// Init/Update/View loop fed by a channel of state snapshots,
// retargeted to internal/viz's sink.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mazebot.ai/internal/core"
	"mazebot.ai/internal/transport"
	"mazebot.ai/internal/tuning"
	"mazebot.ai/internal/viz"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
	name := flag.String("name", "controlpanel", "agent name")
	tuningFile := flag.String("tuning", "", "path to tuning.yaml (defaults used if empty)")
	traceDir := flag.String("trace-dir", "", "directory for the zstd/JSONL decision trace (disabled if empty)")
	t := tuning.Defaults()
	tuning.RegisterFlags(flag.CommandLine, &t)
	flag.Parse()

	if *tuningFile != "" {
		loaded, err := tuning.Load(*tuningFile)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
		// Flags given on the command line override the loaded file.
		set := map[string]string{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
		t = loaded
		for name, value := range set {
			_ = flag.Set(name, value)
		}
	}

	logFile, err := os.OpenFile("controlpanel.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "[controlpanel] ", log.LstdFlags|log.Lmicroseconds)

	bot := core.New(t, *traceDir)
	defer bot.Close()

	client, err := transport.Dial(*url, *name, bot, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer client.Close()

	done := make(chan struct{})
	go func() {
		if err := client.Run(done); err != nil {
			logger.Printf("run: %v", err)
		}
	}()

	program := tea.NewProgram(initialModel(bot.Sink(), bot.ControlPanel()))
	if _, err := program.Run(); err != nil {
		logger.Printf("tui: %v", err)
	}
	close(done)
}

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

type model struct {
	panel   *viz.ControlPanel
	updates <-chan viz.Snapshot
	snap    viz.Snapshot
}

func initialModel(sink *viz.Sink, panel *viz.ControlPanel) model {
	return model{panel: panel, updates: sink.Updates(), snap: sink.Snapshot()}
}

func waitForUpdate(updates <-chan viz.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p", " ":
			m.panel.TogglePause()
			return m, nil
		}
	case viz.Snapshot:
		m.snap = msg
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	state := "RUNNING"
	style := labelStyle
	if m.snap.Paused {
		state = "PAUSED"
		style = pausedStyle
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("State:"), style.Render(state))

	if m.snap.HasTarget {
		fmt.Fprintf(&b, "%s (%d,%d) %s\n", labelStyle.Render("Target:"), m.snap.TargetX, m.snap.TargetY, m.snap.TargetLabel)
	} else {
		fmt.Fprintf(&b, "%s none\n", labelStyle.Render("Target:"))
	}

	fmt.Fprintf(&b, "%s %d cells\n", labelStyle.Render("Planned path:"), len(m.snap.Path))

	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("Opponents:"))
	if len(m.snap.Opponents) == 0 {
		b.WriteString("  none visible\n")
	}
	for _, o := range m.snap.Opponents {
		name := o.Nickname
		if name == "" {
			name = o.ID
		}
		fmt.Fprintf(&b, "  %s at (%d,%d) facing %s\n", name, o.X, o.Y, o.Facing)
	}

	b.WriteString("\npress p to toggle pause, q to quit\n")
	return b.String()
}
