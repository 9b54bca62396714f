package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nodeflow/internal/geom"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("236"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236"))
	helpTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	helpBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// renderCanvas draws the visible part of the graph. live adds the drag
// line and the snap target.
func (m *model) renderCanvas(live bool) []string {
	opts := renderOptions{}
	if live {
		opts.tempLine = m.editor.Interaction.TempLine()
		opts.target = m.editor.Interaction.Target()
	}
	return render(m.editor.Graph, m.editor.ZOrder.Ordered(), m.editor.View(), max(m.width, 1), m.canvasRows(), opts)
}

func (m *model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}
	var b strings.Builder
	b.WriteString(strings.Join(m.renderCanvas(true), "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeDragNode:
		return "MOVE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeHelp:
		return "HELP"
	}
	if m.editor.Busy() {
		return "CONNECT"
	}
	return "NORMAL"
}

func (m *model) statusLine() string {
	width := max(m.width, 1)
	mode := modeStyle.Render(m.modeString())

	var body string
	switch m.mode {
	case ModeFileInput:
		body = promptStyle.Render(" " + fileOpPrompt(m.fileOp) + m.input + "█")
	case ModeConfirm:
		body = promptStyle.Render(" " + m.confirmQuestion() + " (y/n)")
	default:
		switch {
		case m.errorMessage != "":
			body = errorStyle.Render(" " + m.errorMessage)
		case m.successMessage != "":
			body = successStyle.Render(" " + m.successMessage)
		case m.config.SnapDebug && m.editor.Busy():
			body = statusStyle.Render(" " + m.snapDebug())
		}
	}

	name := "untitled"
	if m.filename != "" {
		name = filepath.Base(m.filename)
	}
	if m.dirty {
		name += " [+]"
	}
	g := m.editor.Graph
	right := statusStyle.Render(fmt.Sprintf(" %s  %dn %dc  %.0f%%  ? help ",
		name, g.NodeCount(), g.ConnectionCount(), currentZoom(m.editor.View())*100))

	gap := width - lipgloss.Width(mode) - lipgloss.Width(body) - lipgloss.Width(right)
	if gap < 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(mode + body + right)
	}
	return mode + body + statusStyle.Render(strings.Repeat(" ", gap)) + right
}

func fileOpPrompt(op FileOperation) string {
	switch op {
	case FileOpOpen:
		return "Open: "
	case FileOpSavePNG:
		return "Export PNG: "
	case FileOpSaveVisualTXT:
		return "Export text: "
	default:
		return "Save as: "
	}
}

func (m *model) confirmQuestion() string {
	switch m.confirmAction {
	case ConfirmDeleteNode:
		if m.confirmNode != nil {
			return fmt.Sprintf("Delete %q and its connections?", m.confirmNode.Title)
		}
		return "Delete node?"
	case ConfirmQuit:
		return "Quit without saving?"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("Overwrite %s?", m.input)
	case ConfirmReload:
		return fmt.Sprintf("%s changed on disk. Reload and drop local changes?", filepath.Base(m.filename))
	}
	return "Are you sure?"
}

func (m *model) snapDebug() string {
	ix := m.editor.Interaction
	src := "none"
	if ix.Source() != nil {
		src = ix.Source().String()
	}
	line := ix.TempLine()
	if t := ix.Target(); t != nil {
		return fmt.Sprintf("%s -> %s (%.1f)", src, t, geom.Distance(line.End, t.Position()))
	}
	return fmt.Sprintf("%s -> (%.0f, %.0f)", src, line.End.X, line.End.Y)
}

var helpLines = []string{
	"Mouse",
	"  drag from an output      start a connection",
	"  drag from a linked input pick the link up again",
	"  release near an input    connect (replaces its link)",
	"  drag a node title        move the node",
	"  click a node             select and bring to front",
	"",
	"Keys",
	"  esc                      cancel the current drag",
	"  h j k l / arrows         pan (H J K pan faster)",
	"  + / -                    zoom in / out",
	"  f                        fit the graph on screen",
	"  tab                      select next node",
	"  a                        add a node at the mouse",
	"  x / d                    delete the selected node",
	"  L                        auto-layout",
	"  s / S                    save / save as",
	"  o                        open",
	"  p / t                    export PNG / text",
	"  y                        copy the document to the clipboard",
	"  q                        quit",
}

func (m *model) helpView() string {
	lines := helpLines
	visible := max(m.height-6, 1)
	start := min(m.helpScroll, max(len(lines)-visible, 0))
	end := min(start+visible, len(lines))

	var b strings.Builder
	b.WriteString(helpTitle.Render("nodeflow"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines[start:end], "\n"))
	return helpBox.Render(b.String())
}
