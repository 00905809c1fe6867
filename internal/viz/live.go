package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravswarm/internal/config"
	"github.com/san-kum/gravswarm/internal/export"
	"github.com/san-kum/gravswarm/internal/input"
	"github.com/san-kum/gravswarm/internal/metrics"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

const (
	panelWidth = 38
	// subpixelSize is the number of screen pixels covered by one braille dot.
	subpixelSize    = 5.0
	maxFrameDelta   = 0.25
	historyCapacity = 240
	minCols         = 20
	minRows         = 8

	defaultCols = 80
	defaultRows = 24
)

type TickMsg time.Time

// Model hosts a swarm in the terminal. Mouse motion over the canvas drives
// the attractor and a left click flips its force.
type Model struct {
	cfg    *config.Config
	mobile bool
	logger *log.Logger

	world   *sim.World
	pointer *input.PointerSampler
	events  *input.EventQueue
	speed   *metrics.MeanSpeed

	canvas     *Canvas
	cols, rows int
	theme      Theme
	styles     styles

	lastFrame    time.Time
	frameDelta   time.Duration
	running      bool
	showHelp     bool
	fps          float64
	speedHistory []float64

	snapshotDir string
	status      string
}

// NewModel builds a world sized for the default terminal; the first
// WindowSizeMsg resizes it to the real one.
func NewModel(cfg *config.Config, mobile bool, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		cfg:          cfg,
		mobile:       mobile,
		logger:       logger,
		cols:         defaultCols,
		rows:         defaultRows,
		canvas:       NewCanvas(defaultCols, defaultRows),
		theme:        Themes[0],
		styles:       newStyles(Themes[0]),
		frameDelta:   time.Duration(cfg.FrameDelta() * float64(time.Second)),
		running:      true,
		speedHistory: make([]float64, 0, historyCapacity),
		snapshotDir:  ".",
	}
	if err := m.build(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// build spawns a fresh world for the current canvas size and wires input.
func (m *Model) build() error {
	w, h := m.viewportPx()
	world, err := m.cfg.NewWorld(w, h, m.mobile)
	if err != nil {
		return err
	}
	world.Clock().SetMaxFrameDelta(maxFrameDelta)

	m.pointer = input.NewPointerSampler(world.LastPointer())
	m.events = input.NewEventQueue(input.DefaultQueueSize)
	m.speed = metrics.NewMeanSpeed()
	world.SetPointerSource(m.pointer)
	world.SetEventSource(m.events)
	world.AddObserver(sim.MetricObserver{Metric: m.speed})

	m.world = world
	m.speedHistory = m.speedHistory[:0]
	m.logger.Info("world built", "particles", world.Len(), "width", w, "height", h)
	return nil
}

func (m *Model) viewportPx() (float64, float64) {
	return float64(m.cols) * 2 * subpixelSize, float64(m.rows) * 4 * subpixelSize
}

// SetTheme switches to the named theme; unknown names pick the first one.
func (m *Model) SetTheme(name string) {
	m.theme = GetTheme(name)
	m.styles = newStyles(m.theme)
}

// SetSnapshotDir sets where the s key writes SVG snapshots.
func (m *Model) SetSnapshotDir(dir string) { m.snapshotDir = dir }

func (m Model) World() *sim.World { return m.world }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameDelta, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the world once per frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-panelWidth, minCols)
		m.rows = max(msg.Height-1, minRows)
		m.canvas.Resize(m.cols, m.rows)
		w, h := m.viewportPx()
		if err := m.world.Resize(w, h); err != nil {
			m.logger.Error("resize", "err", err)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.X < 0 || msg.Y < 0 || msg.X >= m.cols || msg.Y >= m.rows {
			return m, nil
		}
		// Center of the cell in screen pixels.
		m.pointer.Store(
			float64(msg.X*2+1)*subpixelSize,
			float64(msg.Y*4+2)*subpixelSize,
		)
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.events.Push(input.Event{Kind: input.ToggleForce})
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "f":
			m.events.Push(input.Event{Kind: input.ToggleForce})
		case "r":
			if err := m.build(); err != nil {
				m.logger.Error("reset", "err", err)
				m.status = "reset failed"
			} else {
				m.status = "reset"
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		case "s":
			m.status = m.saveSnapshot()
		}
		return m, nil

	case TickMsg:
		now := time.Time(msg)
		var delta float64
		if !m.lastFrame.IsZero() {
			delta = now.Sub(m.lastFrame).Seconds()
		}
		m.lastFrame = now

		if m.running {
			m.world.Tick(delta)
			if delta > 0 {
				inst := 1 / delta
				if m.fps == 0 {
					m.fps = inst
				} else {
					m.fps = 0.9*m.fps + 0.1*inst
				}
			}
			if len(m.speedHistory) == historyCapacity {
				m.speedHistory = m.speedHistory[1:]
			}
			m.speedHistory = append(m.speedHistory, m.speed.Last())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) saveSnapshot() string {
	scene := export.Scene{
		Particles:     m.world.Particles(nil),
		Attractor:     m.world.Attractor(),
		Bounds:        m.world.Bounds(),
		PixelsPerUnit: m.world.PixelsPerUnit(),
		Background:    physics.Color(m.cfg.BackgroundColor),
	}
	path := filepath.Join(m.snapshotDir, fmt.Sprintf("gravswarm_%06d.svg", m.world.Steps()))
	if err := os.WriteFile(path, []byte(export.SceneToSVG(scene, 1.5)), 0644); err != nil {
		m.logger.Error("snapshot", "err", err)
		return "snapshot failed"
	}
	m.logger.Info("snapshot saved", "path", path)
	return "saved " + filepath.Base(path)
}

func (m *Model) draw() {
	m.canvas.Clear()
	ppu := m.world.PixelsPerUnit()
	m.world.Each(func(_ int, p sim.ParticleSnapshot) {
		s := p.Screen(ppu)
		m.canvas.Plot(int(s.X/subpixelSize), int(s.Y/subpixelSize), p.Color)
	})

	a := m.world.Attractor().Screen(ppu)
	ax, ay := int(a.X/subpixelSize), int(a.Y/subpixelSize)
	m.canvas.DrawLine(ax-3, ay, ax+3, ay)
	m.canvas.DrawLine(ax, ay-3, ax, ay+3)
}

func (m Model) markerColor() lipgloss.Color {
	if m.world.Attractor().ForceSign < 0 {
		return m.theme.Repel
	}
	return m.theme.Attract
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	m.draw()
	canvasView := m.canvas.Render(m.markerColor())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(GradientText("GRAVSWARM", m.theme.Title, m.markerColor())) + "\n\n")
	if m.running {
		s.WriteString(m.styles.running.Render("RUNNING"))
	} else {
		s.WriteString(m.styles.paused.Render("PAUSED"))
	}
	force := "ATTRACT"
	if m.world.Attractor().ForceSign < 0 {
		force = "REPEL"
	}
	s.WriteString("  " + lipgloss.NewStyle().Bold(true).Foreground(m.markerColor()).Render(force) + "\n\n")

	s.WriteString(m.row("Particles", fmt.Sprintf("%d", m.world.Len())))
	s.WriteString(m.row("Time", fmt.Sprintf("%.2fs", m.world.Time())))
	s.WriteString(m.row("Steps", fmt.Sprintf("%d", m.world.Steps())))
	s.WriteString(m.row("FPS", fmt.Sprintf("%.0f", m.fps)))
	s.WriteString(m.row("Dropped", fmt.Sprintf("%.2fs", m.world.Clock().Dropped())))
	s.WriteString(m.row("Mean speed", fmt.Sprintf("%.3f", m.speed.Last())))

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(panelWidth-14), asciigraph.Caption("Mean speed"))
		s.WriteString("\n" + m.styles.graph.Render(chart) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + m.styles.keyHint.Render(m.status) + "\n")
	}

	s.WriteString("\n" + Separator(panelWidth-6, m.styles.separator) + "\n")
	s.WriteString(m.styles.keyHint.Render("Mouse:Move Click/F:Flip\nSP:Pause R:Reset S:SVG\nT:Theme ?:Help Q:Quit"))

	panel := m.styles.panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Mouse    - Move the attractor       ║
║  Click/F  - Attract <-> repel        ║
║  Space    - Pause/Resume             ║
║  R        - Respawn the swarm        ║
║  S        - Save an SVG snapshot     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the interactive program and blocks until it exits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
