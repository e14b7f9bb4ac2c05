package notebook

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

const emptyNotebook = `{"cells":[],"metadata":{},"nbformat":4,"nbformat_minor":5}`

// Import converts .ipynb data into delimited text. Markdown and raw cells
// become markdown cells whose lines are commented with "# ". Outputs are
// dropped.
func Import(data []byte, delimiter string) (string, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: not JSON", ErrInvalidNotebook)
	}
	if v := gjson.GetBytes(data, "nbformat").Int(); v < 4 {
		return "", fmt.Errorf("%w: nbformat %d", ErrInvalidNotebook, v)
	}
	cells := gjson.GetBytes(data, "cells")
	if !cells.IsArray() {
		return "", fmt.Errorf("%w: missing cells", ErrInvalidNotebook)
	}

	var b strings.Builder
	var err error
	cells.ForEach(func(_, cell gjson.Result) bool {
		body := joinSource(cell.Get("source"))
		switch typ := cell.Get("cell_type").String(); typ {
		case "code":
			b.WriteString(delimiter + "\n")
		case "markdown", "raw":
			b.WriteString(delimiter + " [markdown]\n")
			body = commentLines(body)
		default:
			err = fmt.Errorf("%w: unknown cell type %q", ErrInvalidNotebook, typ)
			return false
		}
		b.WriteString(body)
		if body != "" && !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		return true
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// Language returns the kernel language recorded in the notebook metadata,
// or "".
func Language(data []byte) string {
	r := gjson.GetManyBytes(data, "metadata.kernelspec.language", "metadata.language_info.name")
	for _, v := range r {
		if v.String() != "" {
			return v.String()
		}
	}
	return ""
}

type codeCell struct {
	CellType       string         `json:"cell_type"`
	ExecutionCount *int           `json:"execution_count"`
	Metadata       map[string]any `json:"metadata"`
	Outputs        []any          `json:"outputs"`
	Source         []string       `json:"source"`
}

type markdownCell struct {
	CellType string         `json:"cell_type"`
	Metadata map[string]any `json:"metadata"`
	Source   []string       `json:"source"`
}

// Export converts delimited text into .ipynb data. When base holds the
// notebook the text was imported from, its top-level metadata is kept.
func Export(text, delimiter string, base []byte) ([]byte, error) {
	doc := emptyNotebook
	var err error
	if len(base) > 0 && gjson.ValidBytes(base) {
		if md := gjson.GetBytes(base, "metadata"); md.IsObject() {
			if doc, err = sjson.SetRaw(doc, "metadata", md.Raw); err != nil {
				return nil, fmt.Errorf("copy metadata: %w", err)
			}
		}
	}

	snap := buffer.NewFromString(text).Snapshot()
	for _, c := range Parse(snap, delimiter) {
		src := strings.TrimRight(Source(snap, c), "\n")
		if !c.HasDelimiter && strings.TrimSpace(src) == "" {
			continue
		}
		var cell any
		if c.Kind == KindMarkdown {
			cell = markdownCell{CellType: "markdown", Metadata: map[string]any{}, Source: splitSource(uncommentLines(src))}
		} else {
			cell = codeCell{CellType: "code", Metadata: map[string]any{}, Outputs: []any{}, Source: splitSource(src)}
		}
		if doc, err = sjson.Set(doc, "cells.-1", cell); err != nil {
			return nil, fmt.Errorf("append cell %d: %w", c.Index, err)
		}
	}
	return []byte(doc), nil
}

func joinSource(r gjson.Result) string {
	if !r.IsArray() {
		return r.String()
	}
	var b strings.Builder
	r.ForEach(func(_, line gjson.Result) bool {
		b.WriteString(line.String())
		return true
	})
	return b.String()
}

// splitSource splits s into lines that keep their newline, the .ipynb
// source convention.
func splitSource(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func commentLines(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = "#"
		} else {
			lines[i] = "# " + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func uncommentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "# "):
			lines[i] = l[2:]
		case l == "#":
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
