package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"nodeflow/internal/editor"
	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
	"nodeflow/internal/interact"
	"nodeflow/internal/logging"
	"nodeflow/internal/persist"
	"nodeflow/internal/transform"
)

func newLayout() *transform.GridLayout {
	return &transform.GridLayout{CellW: cellWidth, CellH: cellHeight}
}

// newModel opens filename, or starts empty (or on the demo graph) when no
// file is given. A file that does not exist yet becomes the save target.
func newModel(config *Config, logger *logging.Logger, filename string, demo bool) (*model, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &model{
		config: config,
		log:    logger,
		mode:   ModeNormal,
		editor: editor.New(newLayout(), editor.WithLogger(logger.Slog())),
	}

	switch {
	case filename != "":
		m.filename = filename
		if _, err := os.Stat(filename); err == nil {
			report, err := m.editor.Load(filename)
			if err != nil {
				return nil, err
			}
			m.reportLoad(report)
			m.rememberDisk()
		} else {
			m.successMessage = "New file " + filename
		}
	case demo:
		m.editor.Seed()
	}
	m.trackChanges()
	return m, nil
}

// trackChanges marks the model dirty on any change that would be saved.
// It must be called again whenever the editor's graph is replaced.
func (m *model) trackChanges() {
	if m.stopTrack != nil {
		m.stopTrack()
	}
	m.stopTrack = m.editor.Graph.Events().Subscribe(func(e graph.Event) {
		switch e.Kind {
		case graph.PortMoved, graph.SelectionChanged:
		default:
			m.dirty = true
		}
	})
}

func (m *model) close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	if m.stopTrack != nil {
		m.stopTrack()
	}
	m.editor.Close()
}

func (m *model) canvasRows() int {
	return max(m.height-statusLines, 1)
}

func (m *model) Init() tea.Cmd {
	return m.watchFile()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fileChangedMsg:
		if m.watcher == nil || msg.path != m.watcher.path {
			return m, nil
		}
		return m, tea.Batch(m.watcher.next(), m.fileChanged())

	case watchErrMsg:
		m.log.Warn("file watcher error", "error", msg.err)
		if m.watcher != nil {
			return m, m.watcher.next()
		}
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeHelp:
		return m, m.thenResume(m.handleHelpKey(key))
	case ModeFileInput:
		return m, m.thenResume(m.handleFileInputKey(msg))
	case ModeConfirm:
		_, cmd := m.handleConfirmKey(key)
		return m, m.thenResume(cmd)
	}

	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "q":
		if m.dirty && m.config.Confirmations {
			m.startConfirm(ConfirmQuit, nil)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.prevMode = m.mode
		m.mode = ModeHelp
		m.helpScroll = 0
	case "esc":
		m.cancelGestures()
		return m, m.afterGesture()
	case "s":
		if m.filename == "" {
			m.startFileInput(FileOpSave, defaultFileName)
			return m, nil
		}
		return m, m.save(m.filename)
	case "S":
		m.startFileInput(FileOpSave, m.filename)
	case "o":
		m.startFileInput(FileOpOpen, "")
	case "p":
		m.startFileInput(FileOpSavePNG, m.exportName(".png"))
	case "t":
		m.startFileInput(FileOpSaveVisualTXT, m.exportName(".txt"))
	case "y":
		if err := m.yankDocument(); err != nil {
			m.errorMessage = "Copy failed: " + err.Error()
		} else {
			m.successMessage = "Document copied to clipboard"
		}
	case "x", "d":
		n := m.editor.Selected()
		if n == nil {
			m.errorMessage = "No node selected"
			return m, nil
		}
		if m.config.Confirmations {
			m.startConfirm(ConfirmDeleteNode, n)
			return m, nil
		}
		m.deleteNode(n)
	case "a":
		m.addNode()
	case "tab":
		m.selectNext()
	case "L":
		m.applyAutoLayout()
	case "f":
		m.fitView()
	case "+", "=":
		m.handleZoom(true)
	case "-":
		m.handleZoom(false)
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"H", "J", "K", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key)
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) tea.Cmd {
	switch key {
	case "esc", "q", "?":
		m.mode = m.prevMode
		m.helpScroll = 0
	case "j", "down":
		m.helpScroll++
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return nil
}

func (m *model) startFileInput(op FileOperation, initial string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.input = initial
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input = ""
		return nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input)
		m.mode = ModeNormal
		m.input = ""
		if name == "" {
			return nil
		}
		return m.runFileOp(name)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return nil
}

func (m *model) runFileOp(name string) tea.Cmd {
	switch m.fileOp {
	case FileOpOpen:
		path := name
		if _, err := os.Stat(path); err != nil {
			path = m.config.GetSavePath(name)
		}
		return m.open(path)
	case FileOpSave:
		path := m.config.GetSavePath(name)
		if path != m.filename && m.config.Confirmations {
			if _, err := os.Stat(path); err == nil {
				m.input = path
				m.startConfirm(ConfirmOverwriteFile, nil)
				return nil
			}
		}
		return m.save(path)
	case FileOpSavePNG:
		path := m.config.GetSavePath(name)
		if err := exportPNG(m.editor.Graph, m.editor.ZOrder.Ordered(), path); err != nil {
			m.errorMessage = "Export failed: " + err.Error()
			return nil
		}
		m.successMessage = "Exported " + path
	case FileOpSaveVisualTXT:
		path := m.config.GetSavePath(name)
		if err := exportVisualTXT(m.renderCanvas(false), path); err != nil {
			m.errorMessage = "Export failed: " + err.Error()
			return nil
		}
		m.successMessage = "Exported " + path
	}
	return nil
}

func (m *model) startConfirm(action ConfirmAction, n *graph.Node) {
	m.prevMode = m.mode
	m.mode = ModeConfirm
	m.confirmAction = action
	m.confirmNode = n
}

func (m *model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.confirmNode = nil
		if m.confirmAction == ConfirmReload {
			m.successMessage = "Kept local changes"
		}
		return m, nil
	default:
		return m, nil
	}

	m.mode = ModeNormal
	switch m.confirmAction {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmDeleteNode:
		if m.confirmNode != nil {
			m.deleteNode(m.confirmNode)
		}
	case ConfirmOverwriteFile:
		path := m.input
		m.input = ""
		return m, m.save(path)
	case ConfirmReload:
		m.reload()
	}
	m.confirmNode = nil
	return m, nil
}

func (m *model) save(path string) tea.Cmd {
	if err := m.editor.Save(path); err != nil {
		m.errorMessage = "Save failed: " + err.Error()
		return nil
	}
	retarget := path != m.filename
	m.filename = path
	m.dirty = false
	m.rememberDisk()
	m.successMessage = "Saved " + path
	if retarget {
		return m.watchFile()
	}
	return nil
}

func (m *model) open(path string) tea.Cmd {
	report, err := m.editor.Load(path)
	if err != nil {
		m.errorMessage = "Open failed: " + err.Error()
		return nil
	}
	m.filename = path
	m.afterLoad(report)
	return m.watchFile()
}

func (m *model) reload() {
	report, err := m.editor.Load(m.filename)
	if err != nil {
		m.errorMessage = "Reload failed: " + err.Error()
		return
	}
	m.afterLoad(report)
	if report.OK() {
		m.successMessage = "Reloaded " + m.filename
	}
}

func (m *model) afterLoad(report *persist.Report) {
	m.dragNode = nil
	m.pendingReload = false
	m.dirty = false
	m.trackChanges()
	m.rememberDisk()
	m.reportLoad(report)
}

func (m *model) reportLoad(report *persist.Report) {
	if report.OK() {
		m.successMessage = fmt.Sprintf("Loaded %d nodes", m.editor.Graph.NodeCount())
		return
	}
	m.errorMessage = fmt.Sprintf("Loaded %d nodes, %d problems (see log)",
		m.editor.Graph.NodeCount(), len(report.Problems))
}

// fileChanged reloads the open file after an outside change. A reload
// never interrupts a gesture; it waits until the editor is idle again.
func (m *model) fileChanged() tea.Cmd {
	if m.filename == "" || !m.changedOnDisk() {
		return nil
	}
	if m.editor.Busy() || m.mode != ModeNormal {
		m.pendingReload = true
		return nil
	}
	m.applyReload()
	return nil
}

func (m *model) applyReload() {
	m.pendingReload = false
	if m.dirty && m.config.Confirmations {
		m.startConfirm(ConfirmReload, nil)
		return
	}
	m.reload()
}

// afterGesture runs any reload that was held back by a gesture or a prompt.
func (m *model) afterGesture() tea.Cmd {
	if !m.pendingReload || m.editor.Busy() || m.mode != ModeNormal {
		return nil
	}
	if !m.changedOnDisk() {
		m.pendingReload = false
		return nil
	}
	m.applyReload()
	return nil
}

// thenResume runs a held-back reload once a prompt has closed, keeping cmd.
func (m *model) thenResume(cmd tea.Cmd) tea.Cmd {
	if next := m.afterGesture(); next != nil {
		return tea.Batch(cmd, next)
	}
	return cmd
}

func (m *model) cancelGestures() {
	m.editor.Interaction.Cancel()
	if m.mode == ModeDragNode {
		m.mode = ModeNormal
	}
	m.dragNode = nil
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != ModeNormal && m.mode != ModeDragNode {
		return nil
	}
	m.cursorX, m.cursorY = msg.X, msg.Y
	view := m.editor.View()
	p := canvasAt(view, msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= m.canvasRows() {
			return nil
		}
		m.press(p, msg.Y)

	case tea.MouseActionMotion:
		switch {
		case m.mode == ModeDragNode && m.dragNode != nil:
			d := p.Sub(m.dragLast)
			m.editor.MoveNode(m.dragNode, d.X, d.Y)
			m.dragLast = p
		case m.editor.Busy():
			m.editor.Interaction.Move(p)
		}

	case tea.MouseActionRelease:
		switch {
		case m.mode == ModeDragNode:
			m.mode = ModeNormal
			m.dragNode = nil
		case m.editor.Busy():
			c, err := m.editor.Interaction.Release(p)
			switch {
			case err != nil:
				m.errorMessage = "Cannot connect: " + err.Error()
			case c != nil:
				m.successMessage = "Connected " + c.String()
			}
		}
		return m.afterGesture()
	}
	return nil
}

// press routes a left click: ports start or pick up links, a node title
// starts a node drag, and anything else selects what is under the cursor.
func (m *model) press(p geom.Point, row int) {
	g := m.editor.Graph
	m.errorMessage = ""
	m.successMessage = ""

	if interact.NearestOutput(g, p) != nil {
		m.editor.Interaction.PressOutput(p)
		return
	}
	if interact.NearestInput(g, p, nil) != nil {
		m.editor.Interaction.PressInput(p)
		return
	}

	n := m.editor.NodeAt(p)
	m.editor.Select(n)
	if n == nil {
		return
	}
	if tl, _ := nodeCells(m.editor.View(), n); row == tl.Y {
		m.mode = ModeDragNode
		m.dragNode = n
		m.dragLast = p
	}
}

func (m *model) deleteNode(n *graph.Node) {
	title := n.Title
	if m.editor.RemoveNode(n) {
		m.successMessage = "Deleted " + title
	}
}

// addNode places a pass-through node with one input and one output under
// the mouse cursor.
func (m *model) addNode() {
	m.nodeSerial++
	p := canvasAt(m.editor.View(), m.cursorX, m.cursorY)
	n := graph.NewNode(fmt.Sprintf("Node %d", m.nodeSerial),
		graph.WithPosition(p.X, p.Y),
		graph.WithSize(20*cellWidth, 5*cellHeight),
		graph.WithInput("In", graph.TypeAny),
		graph.WithOutput("Out", graph.TypeAny),
	)
	if err := m.editor.AddNode(n); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.editor.Select(n)
}

// selectNext cycles the selection through the nodes in insertion order.
func (m *model) selectNext() {
	nodes := m.editor.Graph.Nodes()
	if len(nodes) == 0 {
		return
	}
	next := nodes[0]
	if cur := m.editor.Selected(); cur != nil {
		next = nodes[(m.editor.Graph.IndexOf(cur)+1)%len(nodes)]
	}
	m.editor.Select(next)
}

func (m *model) fitView() {
	var bounds geom.Rect
	for _, n := range m.editor.Graph.Nodes() {
		bounds = bounds.Union(n.Bounds())
	}
	m.centreOn(bounds)
}

// exportName derives an export file name from the open file.
func (m *model) exportName(ext string) string {
	if m.filename == "" {
		return strings.TrimSuffix(defaultFileName, filepath.Ext(defaultFileName)) + ext
	}
	return strings.TrimSuffix(filepath.Base(m.filename), filepath.Ext(m.filename)) + ext
}
