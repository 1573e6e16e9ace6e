package session

// Mode is the interaction state.
type Mode int

const (
	ModeFill Mode = iota
	ModeEdit
	ModePreview
	ModeEnd
)

func (m Mode) String() string {
	switch m {
	case ModeFill:
		return "fill"
	case ModeEdit:
		return "edit"
	case ModePreview:
		return "preview"
	default:
		return "end"
	}
}

// Command is a symbolic user action.
type Command int

const (
	CmdNone Command = iota
	CmdSelectFill
	CmdSwapBackground
	CmdSwapCategories
	CmdDilate
	CmdBridge
	CmdIncreaseMin
	CmdDecreaseMin
	CmdIncreaseMax
	CmdDecreaseMax
	CmdGotoFill
	CmdGotoEdit
	CmdGotoPreview
	CmdWriteOutput
	CmdQuit
)

var commandNames = [...]string{
	CmdNone:           "none",
	CmdSelectFill:     "select-fill",
	CmdSwapBackground: "swap-background",
	CmdSwapCategories: "swap-categories",
	CmdDilate:         "dilate",
	CmdBridge:         "bridge",
	CmdIncreaseMin:    "increase-min",
	CmdDecreaseMin:    "decrease-min",
	CmdIncreaseMax:    "increase-max",
	CmdDecreaseMax:    "decrease-max",
	CmdGotoFill:       "goto-fill",
	CmdGotoEdit:       "goto-edit",
	CmdGotoPreview:    "goto-preview",
	CmdWriteOutput:    "write-output",
	CmdQuit:           "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// binding ties a key to a command and its legend line.
type binding struct {
	key  rune
	cmd  Command
	help string
}

var bindings = map[Mode][]binding{
	ModeFill: {
		{'o', CmdSelectFill, "Fill Clicked Zone (After a double click)"},
		{'s', CmdSwapBackground, "Swap Grayscale and Color Background"},
		{'g', CmdSwapCategories, "Swap Grayscale and Color Zones"},
		{'e', CmdGotoEdit, "Go to Edit State"},
		{'p', CmdGotoPreview, "Go to Preview State"},
		{'x', CmdQuit, "Exit"},
	},
	ModeEdit: {
		{'d', CmdDilate, "Dilate Border"},
		{'b', CmdBridge, "Bridge Border"},
		{'s', CmdSwapBackground, "Swap Grayscale and Color Background"},
		{'g', CmdSwapCategories, "Swap Grayscale and Color Zones"},
		{'1', CmdIncreaseMin, "Increase Min Threshold for Edges by 15"},
		{'2', CmdDecreaseMin, "Decrease Min Threshold for Edges by 15"},
		{'3', CmdIncreaseMax, "Increase Max Threshold for Edges by 15"},
		{'4', CmdDecreaseMax, "Decrease Max Threshold for Edges by 15"},
		{'f', CmdGotoFill, "Return to Fill State"},
		{'x', CmdQuit, "Exit"},
	},
	ModePreview: {
		{'w', CmdWriteOutput, "Write Image"},
		{'s', CmdSwapBackground, "Swap Grayscale and Color"},
		{'f', CmdGotoFill, "Return to Fill State"},
		{'x', CmdQuit, "Exit"},
	},
}

// KeyCommand maps a key pressed in mode to a command, or CmdNone when the
// key is not bound there.
func KeyCommand(mode Mode, key rune) Command {
	for _, b := range bindings[mode] {
		if b.key == key {
			return b.cmd
		}
	}
	return CmdNone
}

// Allows reports whether c is legal in mode.
func (m Mode) Allows(c Command) bool {
	for _, b := range bindings[m] {
		if b.cmd == c {
			return true
		}
	}
	return false
}
