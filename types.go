package main

import (
	"nodeflow/internal/editor"
	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
	"nodeflow/internal/logging"
)

type model struct {
	width  int
	height int

	editor *editor.Editor
	config *Config
	log    *logging.Logger

	mode     Mode
	prevMode Mode
	filename string
	dirty    bool

	// node drag state
	dragNode *graph.Node
	dragLast geom.Point

	// cursor in cells, used by keyboard commands that need a position
	cursorX int
	cursorY int

	input          string
	fileOp         FileOperation
	confirmAction  ConfirmAction
	confirmNode    *graph.Node
	pendingReload  bool
	helpScroll     int
	errorMessage   string
	successMessage string

	watcher    *fileWatcher
	known      []byte
	stopTrack  func()
	nodeSerial int
}

// fileChangedMsg reports that the open file changed on disk.
type fileChangedMsg struct {
	path string
}

// watchErrMsg carries a watcher failure into the program loop.
type watchErrMsg struct {
	err error
}
