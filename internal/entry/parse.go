package entry

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParsedEntry is one capture block read back from a day file.
type ParsedEntry struct {
	Time    string `json:"time"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// fencePattern matches fenced code block delimiters at the start of a line.
var fencePattern = regexp.MustCompile("^[ ]{0,3}(`{3,}|~{3,})")

var md = goldmark.New()

// Parse splits a day file on the capture separator and reads each block's time heading
// and summary. Separators inside fenced code blocks are ignored. Trailing text without a
// separator (an interrupted write) is returned as a final block.
func Parse(source string) []ParsedEntry {
	var entries []ParsedEntry
	for _, block := range splitBlocks(source) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		p := ParsedEntry{Body: strings.TrimSpace(block)}
		p.Time, p.Summary = headings(block)
		entries = append(entries, p)
	}
	return entries
}

// splitBlocks cuts source at lines that are exactly the separator.
func splitBlocks(source string) []string {
	var (
		blocks  []string
		current strings.Builder
		fence   string
	)
	for _, line := range strings.SplitAfter(source, "\n") {
		trimmed := strings.TrimRight(line, "\r\n")
		if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case m[1][0] == fence[0] && len(m[1]) >= len(fence):
				fence = ""
			}
		}
		if fence == "" && strings.TrimSpace(trimmed) == Separator {
			blocks = append(blocks, current.String())
			current.Reset()
			continue
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		blocks = append(blocks, current.String())
	}
	return blocks
}

// headings returns the text of the first level-1 and level-2 headings in block.
func headings(block string) (h1, h2 string) {
	src := []byte(block)
	doc := md.Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch {
		case h.Level == 1 && h1 == "":
			h1 = inlineText(h, src)
		case h.Level == 2 && h2 == "":
			h2 = inlineText(h, src)
		}
		if h1 != "" && h2 != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	return h1, h2
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
