package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/figflow/figflow/pkg/errors"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// specExtensions are the file extensions offered by the picker.
var specExtensions = []string{".md", ".flow", ".txt"}

// SpecListModel is the bubbletea model for interactive spec file
// selection when render is invoked without an argument.
type SpecListModel struct {
	Files    []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewSpecListModel creates a spec list model over the given files.
func NewSpecListModel(files []string) SpecListModel {
	return SpecListModel{Files: files, Height: 15}
}

func (m SpecListModel) Init() tea.Cmd {
	return nil
}

func (m SpecListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Files[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SpecListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Spec File"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Files))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.Files[i]) + "\n")
	}
	return b.String()
}

// pickSpecFile lists spec files in the current directory and lets the
// user choose one interactively.
func pickSpecFile() (string, error) {
	files, err := findSpecFiles(".")
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no spec files found in the current directory (looking for %s)", strings.Join(specExtensions, ", "))
	}

	final, err := tea.NewProgram(NewSpecListModel(files), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("spec picker: %w", err)
	}

	model, ok := final.(SpecListModel)
	if !ok || model.Selected == "" {
		return "", fmt.Errorf("no spec file selected")
	}
	return model.Selected, nil
}

// findSpecFiles returns spec files directly under dir, sorted by name.
func findSpecFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slices.Contains(specExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}
