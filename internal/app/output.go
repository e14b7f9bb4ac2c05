package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/inkwell/internal/kernel"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
)

const (
	maxOutputs     = 50
	outputPaneRows = 8
)

// cellOutput is one executed cell kept for the output pane.
type cellOutput struct {
	cell     int
	text     string
	err      error
	duration time.Duration
}

func (s *Session) recordOutput(r kernel.Result) {
	s.outputs = append(s.outputs, cellOutput{cell: r.Cell, text: r.Output, err: r.Err, duration: r.Duration})
	if n := len(s.outputs) - maxOutputs; n > 0 {
		s.outputs = append(s.outputs[:0], s.outputs[n:]...)
	}
}

// OutputLines returns the output log shown by the pane, oldest first. Each
// result starts with a header line followed by its full output.
func (s *Session) OutputLines() []string {
	var lines []string
	for _, o := range s.outputs {
		header := fmt.Sprintf("[%d] %s", o.cell+1, o.duration.Round(time.Millisecond))
		body := o.text
		if o.err != nil {
			header += " error"
			body = o.err.Error()
		}
		lines = append(lines, header)
		if body = strings.TrimRight(body, "\n"); body != "" {
			for _, l := range strings.Split(body, "\n") {
				lines = append(lines, "  "+l)
			}
		}
	}
	return lines
}

// paneHeight returns the rows taken by the output pane, header included.
func (s *Session) paneHeight() int {
	if !s.showOutput {
		return 0
	}
	return min(outputPaneRows, (s.height-1)/2)
}

func (s *Session) toggleOutput() {
	s.showOutput = !s.showOutput
	s.lastPane = nil
	s.lastStatus = nil
	s.rend.Invalidate()
	if s.showOutput && len(s.outputs) == 0 {
		s.info("No cell output yet")
	}
}

// paneRows lays the pane out: a header row and the tail of the log.
func (s *Session) paneRows(height int) [][]core.Cell {
	if height == 0 {
		return nil
	}
	rows := make([][]core.Cell, 0, height)
	header := " Output (Ctrl+O to close)"
	rows = append(rows, fitRow(core.CellsFromString(header, s.theme.Status), s.width, s.theme.Status))

	lines := s.OutputLines()
	lines = lines[max(len(lines)-(height-1), 0):]
	for i := range height - 1 {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		rows = append(rows, fitRow(core.CellsFromString(text, core.DefaultStyle()), s.width, core.DefaultStyle()))
	}
	return rows
}

// drawPane writes the pane rows that changed since the last draw, starting
// at screen row top.
func (s *Session) drawPane(b backend.Backend, top int, full bool) {
	rows := s.paneRows(s.paneHeight())
	for i, row := range rows {
		if full || i >= len(s.lastPane) || !core.RowsEqual(row, s.lastPane[i]) {
			b.DrawRow(top+i, row)
		}
	}
	s.lastPane = rows
}
