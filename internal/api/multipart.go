package api

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Multipart accumulates fields and file parts for a listing
// submission. Field order is preserved.
type Multipart struct {
	fields []field
	files  []filePart
}

type field struct{ key, value string }

type filePart struct {
	key, name string
	r         io.Reader
}

func NewMultipart() *Multipart { return &Multipart{} }

func (m *Multipart) AddField(key, value string) {
	m.fields = append(m.fields, field{key, value})
}

func (m *Multipart) AddFile(key, name string, r io.Reader) {
	m.files = append(m.files, filePart{key, name, r})
}

// Fields returns the scalar parts as a map. Used by callers that need
// to inspect a payload; duplicate keys keep the last write.
func (m *Multipart) Fields() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.key] = f.value
	}
	return out
}

// FileNames returns the file part keys in order of addition.
func (m *Multipart) FileNames() []string {
	var out []string
	for _, f := range m.files {
		out = append(out, f.key)
	}
	return out
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.key, f.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.r); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
