package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
	"github.com/Dicklesworthstone/hostpanel/internal/sampler"
)

const (
	calculating = "Calculating..."
	notAvail    = "N/A"
	gaugeWidth  = 28
)

// Model renders live snapshots from the sampler.
type Model struct {
	latest    model.Snapshot
	stream    <-chan model.Snapshot
	ctxCancel context.CancelFunc
	width     int
	height    int
}

func New(s *sampler.Sampler) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		latest:    model.Zero(),
		stream:    s.Stream(ctx),
		ctxCancel: cancel,
		width:     120,
		height:    40,
	}
}

// Messages
type tickMsg struct{}

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.ctxCancel()
			return m, tea.Quit
		}
	case tickMsg:
		select {
		case snap, ok := <-m.stream:
			if ok {
				m.latest = snap
			}
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	s := m.latest
	header := titleStyle.Render("System Monitor") + "  " +
		subtleStyle.Render(s.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006")) + "  " +
		subtleStyle.Render("q to quit")

	left := lipgloss.JoinVertical(lipgloss.Left,
		card("CPU Usage", cpuLine(s.CPU)),
		card("Memory Usage", memoryLine(s.Memory)),
		card("Disk Usage", diskLine(s.Disk)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		card("GPU", gpuLines(s.GPU)),
		card("Host", hostLines(s.Load, s.Swap)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

// unready renders the placeholder for a slot that has no value this pass.
func unready(st model.Status) string {
	if st.State == model.Pending {
		return calculating
	}
	return notAvail
}

func cpuLine(c model.CPU) string {
	if !c.Ready() {
		return unready(c.Status)
	}
	return gaugeBar(c.UsagePercent, gaugeWidth)
}

func memoryLine(mem model.Memory) string {
	if !mem.Ready() {
		return unready(mem.Status)
	}
	return fmt.Sprintf("%s  (%s / %s)",
		gaugeBar(mem.UsagePercent, gaugeWidth),
		humanize.IBytes(mem.UsedKB()*1024),
		humanize.IBytes(mem.TotalKB*1024))
}

func diskLine(d model.Disk) string {
	if !d.Ready() {
		return unready(d.Status)
	}
	return fmt.Sprintf("%s  (%s / %s) %s",
		gaugeBar(d.UsagePercent, gaugeWidth),
		humanize.IBytes(d.UsedBytes()),
		humanize.IBytes(d.TotalBytes),
		subtleStyle.Render(d.MountPath))
}

func gpuLines(g model.GPU) string {
	if !g.Ready() {
		usage := "Usage: " + unready(g.Status)
		if errors.Is(g.Err, model.ErrToolMissing) {
			usage += " " + warnStyle.Render("(query tool not found)")
		}
		return usage + "\nTemperature: " + unready(g.Status)
	}
	return fmt.Sprintf("Usage: %s\nTemperature: %.0f°C",
		gaugeBar(g.UtilizationPercent, gaugeWidth/2), g.TemperatureCelsius)
}

func hostLines(l model.Load, sw model.Swap) string {
	load := "Load: " + unready(l.Status)
	if l.Ready() {
		load = fmt.Sprintf("Load: %.2f %.2f %.2f", l.Load1, l.Load5, l.Load15)
	}
	swap := "Swap: " + unready(sw.Status)
	if sw.Ready() {
		swap = fmt.Sprintf("Swap: %s / %s (%3.0f%%)",
			humanize.IBytes(sw.UsedBytes), humanize.IBytes(sw.TotalBytes), pct(sw.UsedBytes, sw.TotalBytes))
	}
	return load + "\n" + swap
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %6.2f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func pct(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) * 100 / float64(total)
}

// RunTUI starts the Bubble Tea program and stops sampling when it exits.
func RunTUI(s *sampler.Sampler) error {
	m := New(s)
	defer m.ctxCancel()
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
