package filetree

import (
	"bytes"
	"path"
	"strings"
	"unicode/utf8"
)

// TextExtensions reports whether a lower-case file extension, including the
// leading dot, denotes a text format.
type TextExtensions func(ext string) bool

// NewTextExtensions returns a classifier that accepts the given extensions.
// Entries may be written with or without the leading dot.
func NewTextExtensions(exts ...string) TextExtensions {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return func(ext string) bool {
		_, ok := set[ext]
		return ok
	}
}

// DefaultTextExtensions covers Typst sources and the usual plain-text
// companions of a Typst project.
var DefaultTextExtensions = NewTextExtensions(
	".typ", ".txt", ".md", ".markdown", ".bib", ".csv", ".tsv", ".json",
	".yaml", ".yml", ".toml", ".xml", ".svg", ".html", ".css", ".tex",
	".rst", ".adoc", ".ini", ".cfg", ".log",
)

// Payload is the content of a file leaf: UTF-8 text or opaque data.
//
// The cached data is invalidated by SetText and recomputed on the next
// call to Data or Flush.
type Payload struct {
	text    string
	isText  bool
	data    []byte
	hasData bool
	dirty   bool
}

func NewTextPayload(text string) *Payload {
	return &Payload{text: text, isText: true, dirty: true}
}

func NewDataPayload(data []byte) *Payload {
	return &Payload{data: bytes.Clone(data), hasData: true}
}

// NewPayload classifies data read from a file called name. It becomes a text
// payload if the extension is a text type and the bytes are valid UTF-8.
// The decision is made once and not revisited.
func NewPayload(name string, data []byte, textExt TextExtensions) *Payload {
	p := NewDataPayload(data)
	if textExt == nil {
		textExt = DefaultTextExtensions
	}
	if textExt(strings.ToLower(path.Ext(name))) && utf8.Valid(data) {
		p.text = string(data)
		p.isText = true
	}
	return p
}

// Text returns the text content and whether the payload is text at all.
func (p *Payload) Text() (string, bool) {
	return p.text, p.isText
}

// SetText replaces the content with text and marks the cached data stale.
func (p *Payload) SetText(text string) {
	p.text = text
	p.isText = true
	p.dirty = true
}

// Data returns the binary form of the payload. The returned slice is a copy.
func (p *Payload) Data() ([]byte, error) {
	if p.hasData && !p.dirty {
		return bytes.Clone(p.data), nil
	}
	if p.isText {
		return []byte(p.text), nil
	}
	return nil, ErrEncoding
}

// Flush brings the cached data in line with the text.
func (p *Payload) Flush() {
	if p.dirty && p.isText {
		p.data = []byte(p.text)
		p.hasData = true
	}
	p.dirty = false
}

// Clone returns a payload that shares no storage with p.
func (p *Payload) Clone() *Payload {
	c := *p
	c.data = bytes.Clone(p.data)
	return &c
}

// Equal compares content, not cache state.
func (p *Payload) Equal(other *Payload) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.isText != other.isText {
		return false
	}
	if p.isText {
		return p.text == other.text
	}
	a, errA := p.Data()
	b, errB := other.Data()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
