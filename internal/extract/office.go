package extract

import (
	"fmt"
	"strings"

	"github.com/soochol/textractor/internal/container"
)

const wordDocumentPart = "word/document.xml"

// WordProcessing extracts the visible run text of an OOXML word-processing
// package, concatenated in document order without added separators.
type WordProcessing struct {
	limits containerLimits
}

func (w WordProcessing) Extract(data []byte) (string, error) {
	a, err := w.limits.open(data)
	if err != nil {
		return "", err
	}

	rc, err := a.Open(wordDocumentPart)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	root, err := container.BuildTree(rc, w.limits.streamOpts()...)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", wordDocumentPart, err)
	}
	if root.Name.Local != "document" {
		return "", fmt.Errorf("%w: %s root is <%s>, want <document>", container.ErrMalformed, wordDocumentPart, root.Name.Local)
	}

	var sb strings.Builder
	walkWord(root, &sb)
	return sb.String(), nil
}

// walkWord appends the text of n to sb, depth first, following wordRules.
func walkWord(n *container.Node, sb *strings.Builder) {
	switch lookupWordRule(n.Name.Local).action {
	case wordText:
		sb.WriteString(n.CharData())
	case wordDescend:
		for _, c := range n.Children {
			if !c.IsText() {
				walkWord(c, sb)
			}
		}
	}
}
