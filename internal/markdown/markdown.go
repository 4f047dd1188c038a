// Package markdown renders task detail documents for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown text for terminal output. When the renderer fails
// the input is word wrapped as plain text.
func Render(width, indentBy int, input []byte) []byte {
	value := normalize(string(input))
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	if indentBy < 0 {
		indentBy = 0
	}
	renderWidth := width - indentBy
	if renderWidth < 1 {
		renderWidth = 1
	}

	rendered := ""
	if r := markdownRenderer(renderWidth); r != nil {
		if formatted, err := r.Render(value); err == nil {
			rendered = formatted
		}
	}
	if strings.TrimSpace(rendered) == "" {
		rendered = wordwrap.String(value, renderWidth)
	}
	rendered = strings.TrimRight(rendered, "\n")
	if indentBy == 0 {
		return []byte(rendered)
	}
	return []byte(indent.String(rendered, uint(indentBy)))
}

// SafeRender is Render, falling back to the normalized input if rendering panics.
func SafeRender(width, indentBy int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			out = []byte(normalize(string(input)))
		}
	}()
	return Render(width, indentBy, input)
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func normalize(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	return strings.TrimRight(value, "\n")
}
