package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/soochol/textractor/internal/container"
)

const slideDir = "ppt/slides/"

// Presentation extracts the text runs of every slide in an OOXML
// presentation package.
//
// Slides are read in archive enumeration order, which is the order the
// producing application wrote them and is not guaranteed to match the slide
// numbers recorded in ppt/presentation.xml.
type Presentation struct {
	limits containerLimits
}

func (p Presentation) Extract(data []byte) (string, error) {
	a, err := p.limits.open(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, name := range a.Files(isSlidePart) {
		if err := p.scanSlide(a, name, &sb); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func isSlidePart(name string) bool {
	rest, ok := strings.CutPrefix(name, slideDir)
	return ok && !strings.Contains(rest, "/") && strings.HasSuffix(rest, ".xml")
}

func (p Presentation) scanSlide(a *container.Archive, name string, sb *strings.Builder) error {
	rc, err := a.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := slideScanner{out: sb}
	stream := container.NewStream(rc, p.limits.streamOpts()...)
	for {
		ev, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		scanner.handle(ev)
	}
}

// textState tracks whether the slide scanner sits inside a DrawingML text
// element (<a:t>).
type textState int

const (
	outsideTextNode textState = iota
	insideTextNode
)

// slideScanner reacts to two elements only. Character data right after an
// <a:t> start tag is appended with one trailing space; the end of an <a:p>
// paragraph appends a line break.
type slideScanner struct {
	state textState
	out   *strings.Builder
}

func (s *slideScanner) handle(ev container.Event) {
	switch ev.Kind {
	case container.StartElement:
		if ev.Name.Local == "t" {
			s.state = insideTextNode
		}
	case container.CharData:
		if s.state == insideTextNode {
			s.out.Write(ev.Text)
			s.out.WriteByte(' ')
			s.state = outsideTextNode
		}
	case container.EndElement:
		switch ev.Name.Local {
		case "t":
			s.state = outsideTextNode
		case "p":
			s.out.WriteByte('\n')
		}
	}
}
