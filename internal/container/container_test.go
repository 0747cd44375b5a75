package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestOpenZip_NotAnArchive(t *testing.T) {
	_, err := OpenZip([]byte("definitely not a zip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestArchive_FilesKeepsEnumerationOrder(t *testing.T) {
	data := buildZip(t,
		[2]string{"b.xml", "<b/>"},
		[2]string{"a.xml", "<a/>"},
		[2]string{"c.txt", "c"},
	)
	a, err := OpenZip(data)
	require.NoError(t, err)

	got := a.Files(func(name string) bool { return strings.HasSuffix(name, ".xml") })
	assert.Equal(t, []string{"b.xml", "a.xml"}, got)
	assert.Equal(t, []string{"b.xml", "a.xml", "c.txt"}, a.Files(func(string) bool { return true }))
	assert.True(t, a.Has("c.txt"))
	assert.False(t, a.Has("missing"))
}

func TestArchive_ReadFile(t *testing.T) {
	a, err := OpenZip(buildZip(t, [2]string{"doc.xml", "<doc>hi</doc>"}))
	require.NoError(t, err)

	data, err := a.ReadFile("doc.xml")
	require.NoError(t, err)
	assert.Equal(t, "<doc>hi</doc>", string(data))

	_, err = a.ReadFile("nope.xml")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestArchive_EntryLimit(t *testing.T) {
	a, err := OpenZip(buildZip(t, [2]string{"big.xml", strings.Repeat("x", 100)}), WithMaxEntryBytes(10))
	require.NoError(t, err)

	_, err = a.ReadFile("big.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntryTooLarge))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestArchive_EntryExactlyAtLimit(t *testing.T) {
	a, err := OpenZip(buildZip(t, [2]string{"ok.xml", "0123456789"}), WithMaxEntryBytes(10))
	require.NoError(t, err)

	data, err := a.ReadFile("ok.xml")
	require.NoError(t, err)
	assert.Len(t, data, 10)
}

func TestArchive_CorruptEntry(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: "part.xml", Method: zip.Store})
	require.NoError(t, err)
	_, err = fw.Write([]byte("<root>MARKERMARKER</root>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := buf.Bytes()
	i := bytes.Index(data, []byte("MARKERMARKER"))
	require.GreaterOrEqual(t, i, 0)
	copy(data[i:], "CORRUPTEDXYZ")

	a, err := OpenZip(data)
	require.NoError(t, err)
	_, err = a.ReadFile("part.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func collect(t *testing.T, s *Stream) []Event {
	t.Helper()
	var events []Event
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		if ev.Kind == CharData {
			ev.Text = append([]byte(nil), ev.Text...)
		}
		events = append(events, ev)
	}
}

func TestStream_Events(t *testing.T) {
	s := NewStream(strings.NewReader(`<?xml version="1.0"?><!-- c --><a x="1"><b>hi</b></a>`))
	events := collect(t, s)

	require.Len(t, events, 5)
	assert.Equal(t, StartElement, events[0].Kind)
	assert.Equal(t, "a", events[0].Name.Local)
	assert.Equal(t, "1", events[0].Attr[0].Value)
	assert.Equal(t, StartElement, events[1].Kind)
	assert.Equal(t, CharData, events[2].Kind)
	assert.Equal(t, "hi", string(events[2].Text))
	assert.Equal(t, EndElement, events[3].Kind)
	assert.Equal(t, "a", events[4].Name.Local)
}

func TestStream_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"mismatched tags", `<a><b></a></b>`},
		{"unclosed", `<a><b>`},
		{"garbage", `<<<>>>`},
		{"unknown entity", `<a>&nbsp;</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(strings.NewReader(tt.doc))
			var err error
			for err == nil {
				_, err = s.Next()
			}
			require.NotEqual(t, io.EOF, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestStream_DepthLimit(t *testing.T) {
	doc := strings.Repeat("<p>", 300) + "deep" + strings.Repeat("</p>", 300)
	s := NewStream(strings.NewReader(doc))
	var err error
	for err == nil {
		_, err = s.Next()
	}
	require.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "nesting depth")
}

func TestStream_DeclaredCharset(t *testing.T) {
	// "café" in ISO-8859-1.
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>caf\xe9</a>")
	events := collect(t, NewStream(bytes.NewReader(doc)))
	require.Len(t, events, 3)
	assert.Equal(t, "café", string(events[1].Text))
}

func TestBuildTree(t *testing.T) {
	root, err := BuildTree(strings.NewReader(`<doc><p id="1">one<b>two</b>three</p></doc>`))
	require.NoError(t, err)

	assert.Equal(t, "doc", root.Name.Local)
	require.Len(t, root.Children, 1)
	p := root.Children[0]
	assert.Equal(t, "p", p.Name.Local)
	require.Len(t, p.Attr, 1)
	assert.Equal(t, "1", p.Attr[0].Value)
	assert.Equal(t, "onethree", p.CharData())
	require.Len(t, p.Children, 3)
	assert.Equal(t, "two", p.Children[1].CharData())
}

func TestBuildTree_Empty(t *testing.T) {
	_, err := BuildTree(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrMalformed))
}
