package commands

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lestorrr/NetLab/pkg/scanexec"
)

var (
	progressStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	openStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// interactiveStderr reports whether stderr is a terminal.
func interactiveStderr() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressPrinter redraws a single status line as probe events arrive.
// Events are delivered concurrently.
type progressPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	done    int
	open    int
	frame   int
	started time.Time
	closed  bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, started: time.Now()}
}

func (p *progressPrinter) OnEvent(ev scanexec.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if ev.Total > 0 {
		p.total = ev.Total
	}

	switch ev.Phase {
	case "probe":
		p.done++
		if ev.Status == "open" {
			p.open++
		}
	case "scan":
		if ev.Status != "start" {
			p.render()
			fmt.Fprintln(p.out)
			p.closed = true
			return
		}
	default:
		return
	}
	p.render()
}

func (p *progressPrinter) render() {
	p.frame = (p.frame + 1) % len(spinnerFrames)
	elapsed := time.Since(p.started).Round(100 * time.Millisecond)

	line := progressStyle.Render(fmt.Sprintf("%s scanned %d/%d", spinnerFrames[p.frame], p.done, p.total)) +
		"  " + openStyle.Render(fmt.Sprintf("open %d", p.open)) +
		"  " + subtleStyle.Render(elapsed.String())
	fmt.Fprintf(p.out, "\r%s", line)
}
