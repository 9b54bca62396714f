package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeDragNode
	ModeFileInput
	ModeConfirm
	ModeHelp
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmQuit
	ConfirmOverwriteFile
	ConfirmReload
)

// One terminal cell covers this many canvas units at zoom 1. The PNG
// export uses the same scale, one pixel per canvas unit.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

var zoomLevels = []float64{1, 1.5, 2, 3}

const (
	defaultFileName = "graph.json"
	statusLines     = 1
)
