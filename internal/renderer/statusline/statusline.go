// Package statusline builds the bottom status row: file name, modified
// marker, cursor position, executor state and the last message.
package statusline

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/inkwell/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// ExecState is the cell executor state shown on the right.
type ExecState int

const (
	ExecNone ExecState = iota // no executor configured
	ExecIdle
	ExecRunning
)

func (e ExecState) String() string {
	switch e {
	case ExecIdle:
		return "idle"
	case ExecRunning:
		return "running"
	default:
		return ""
	}
}

// StatusLine holds what the status row displays.
type StatusLine struct {
	filename   string
	modified   bool
	readOnly   bool
	line       uint32 // 1-based
	col        uint32 // 1-based
	totalLines uint32
	language   string
	exec       ExecState

	message     string
	messageType MessageType

	style core.Style
}

// New creates a status line drawn in style.
func New(style core.Style) *StatusLine {
	return &StatusLine{style: style, line: 1, col: 1}
}

// SetStyle replaces the base style.
func (s *StatusLine) SetStyle(style core.Style) { s.style = style }

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) { s.filename = filename }

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) { s.modified = modified }

// SetReadOnly shows or hides the [RO] marker.
func (s *StatusLine) SetReadOnly(ro bool) { s.readOnly = ro }

// SetPosition updates the cursor position from a 0-based line and column.
func (s *StatusLine) SetPosition(line, col uint32) {
	s.line = line + 1
	s.col = col + 1
}

// SetTotalLines updates the total line count.
func (s *StatusLine) SetTotalLines(total uint32) { s.totalLines = total }

// SetLanguage sets the tokenizer language name.
func (s *StatusLine) SetLanguage(lang string) { s.language = lang }

// SetExec updates the executor state.
func (s *StatusLine) SetExec(state ExecState) { s.exec = state }

// Exec returns the executor state.
func (s *StatusLine) Exec() ExecState { return s.exec }

// SetMessage displays a status message until replaced or cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// left returns the file part: name, modified and read-only markers.
func (s *StatusLine) left() string {
	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.modified {
		name += " [+]"
	}
	if s.readOnly {
		name += " [RO]"
	}
	return " " + name
}

// right returns the position part, for example "python  exec:idle  3:7 ".
func (s *StatusLine) right() string {
	out := ""
	if s.language != "" {
		out += s.language + "  "
	}
	if s.exec != ExecNone {
		out += "exec:" + s.exec.String() + "  "
	}
	out += fmt.Sprintf("%d:%d", s.line, s.col)
	if s.totalLines > 0 {
		out += fmt.Sprintf("/%d", s.totalLines)
	}
	return out + " "
}

// Render lays the status row out in exactly width cells. The message sits
// after the file part and is truncated before the right part is.
func (s *StatusLine) Render(width int) []core.Cell {
	if width <= 0 {
		return nil
	}
	row := make([]core.Cell, 0, width)
	put := func(text string, style core.Style, limit int) {
		text = runewidth.Truncate(text, max(limit, 0), "…")
		row = append(row, core.CellsFromString(text, style)...)
	}

	left := s.left()
	right := s.right()
	rightW := runewidth.StringWidth(right)
	if rightW > width {
		right = runewidth.Truncate(right, width, "")
		rightW = runewidth.StringWidth(right)
	}

	put(left, s.style.Bold(), width-rightW)
	if s.message != "" {
		avail := width - rightW - len(row) - 2
		if avail > 0 {
			put("  ", s.style, 2)
			put(s.message, s.messageStyle(), avail)
		}
	}
	for len(row) < width-rightW {
		row = append(row, core.Cell{Text: " ", Width: 1, Style: s.style})
	}
	row = append(row, core.CellsFromString(right, s.style)...)
	for len(row) < width {
		row = append(row, core.Cell{Text: " ", Width: 1, Style: s.style})
	}
	return row[:width]
}

func (s *StatusLine) messageStyle() core.Style {
	switch s.messageType {
	case MessageError:
		return s.style.WithForeground(core.ColorFromIndex(1)).Bold()
	case MessageWarning:
		return s.style.WithForeground(core.ColorYellow)
	default:
		return s.style
	}
}
