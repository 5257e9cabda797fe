package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-processform/pkg/slider"
)

var (
	slideStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Slideshow is a Bubble Tea model that drives a slide controller from the
// keyboard and shows the text of the active slide.
type Slideshow struct {
	ctrl  *slider.Controller
	width int
}

// NewSlideshow wraps ctrl.
func NewSlideshow(ctrl *slider.Controller) (*Slideshow, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	return &Slideshow{ctrl: ctrl}, nil
}

// Init implements tea.Model.
func (m *Slideshow) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Slideshow) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "right", "l":
			m.ctrl.Next()
		case "left", "h":
			m.ctrl.Prev()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Slideshow) View() string {
	body := slideText(m.ctrl)
	style := slideStyle
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}

	counter := counterStyle.Render(fmt.Sprintf("%d/%d", m.ctrl.Index()+1, m.ctrl.Count()))
	footer := footerStyle.Render("←/→ or h/l navigate · q quit")
	return strings.Join([]string{style.Render(body), counter + "  " + footer}, "\n")
}

// RunSlideshow runs the slideshow until the user quits or ctx is done.
func RunSlideshow(ctx context.Context, ctrl *slider.Controller, options ...tea.ProgramOption) error {
	model, err := NewSlideshow(ctrl)
	if err != nil {
		return err
	}
	options = append([]tea.ProgramOption{tea.WithContext(ctx)}, options...)
	_, err = tea.NewProgram(model, options...).Run()
	return err
}

// slideText flattens each child block of the active slide to one paragraph.
func slideText(ctrl *slider.Controller) string {
	active := ctrl.Active()
	var blocks []string
	for _, child := range active.Children() {
		if text := strings.Join(strings.Fields(child.Text()), " "); text != "" {
			blocks = append(blocks, text)
		}
	}
	if len(blocks) == 0 {
		return strings.Join(strings.Fields(active.Text()), " ")
	}
	return strings.Join(blocks, "\n\n")
}
