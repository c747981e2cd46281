package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		wantText bool
	}{
		{"TypstSource", "main.typ", []byte("= Hello"), true},
		{"UpperCaseExtension", "NOTES.TXT", []byte("notes"), true},
		{"InvalidUTF8", "main.typ", []byte{0xff, 0xfe, 0x00}, false},
		{"BinaryExtension", "logo.png", []byte("looks like text"), false},
		{"NoExtension", "Makefile", []byte("all:"), false},
		{"Empty", "empty.typ", []byte{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPayload(tt.file, tt.data, nil)

			text, ok := p.Text()
			assert.Equal(t, tt.wantText, ok)
			if ok {
				assert.Equal(t, string(tt.data), text)
			}

			data, err := p.Data()
			require.NoError(t, err)
			assert.Equal(t, string(tt.data), string(data))
		})
	}
}

func TestPayloadCustomExtensions(t *testing.T) {
	exts := NewTextExtensions("typ", ".Bib")

	p := NewPayload("refs.bib", []byte("@book{}"), exts)
	_, ok := p.Text()
	assert.True(t, ok)

	p = NewPayload("notes.md", []byte("# notes"), exts)
	_, ok = p.Text()
	assert.False(t, ok)
}

func TestPayloadSetTextInvalidatesData(t *testing.T) {
	p := NewPayload("main.typ", []byte("before"), nil)

	p.SetText("after")

	data, err := p.Data()
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))

	p.Flush()
	data, err = p.Data()
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))
}

func TestPayloadDataIsNotAliased(t *testing.T) {
	p := NewDataPayload([]byte{1, 2, 3})

	data, err := p.Data()
	require.NoError(t, err)
	data[0] = 9

	again, err := p.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)

	clone := p.Clone()
	assert.True(t, clone.Equal(p))
}

func TestPayloadEncodingError(t *testing.T) {
	var p Payload
	_, err := p.Data()
	assert.ErrorIs(t, err, ErrEncoding)
}
