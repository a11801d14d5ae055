package ai

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ToPlainText renders a model reply's markdown to plain text. Chat replies
// are shown verbatim to end users, so bold/emphasis/heading markers coming
// back from the model are stripped rather than leaked.
func ToPlainText(markdown string) string {
	source := []byte(markdown)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.Kind() {
			case ast.KindParagraph, ast.KindHeading, ast.KindListItem:
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.AutoLink:
			sb.Write(node.URL(source))
		case *ast.CodeSpan:
			sb.Write(node.Text(source)) //nolint:staticcheck
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
