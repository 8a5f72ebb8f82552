package forms

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

// ProgressFunc receives the number of file bytes sent so far and the
// expected total, which is -1 when any part has an unknown size.
type ProgressFunc func(sent, total int64)

// File is a binary payload destined for a multipart part.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

type textField struct {
	name  string
	value string
}

type filePart struct {
	field string
	file  File
}

// Multipart is an ordered multipart/form-data body. It is single use: the
// file readers are consumed by Encode.
type Multipart struct {
	fields     []textField
	files      []filePart
	OnProgress ProgressFunc
}

// NewMultipart returns an empty body.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// AddField appends a text part.
func (m *Multipart) AddField(name, value string) *Multipart {
	m.fields = append(m.fields, textField{name: name, value: value})
	return m
}

// AddFile appends a file part.
func (m *Multipart) AddFile(field string, f File) *Multipart {
	m.files = append(m.files, filePart{field: field, file: f})
	return m
}

// FieldNames lists the part names in the order they will be written.
func (m *Multipart) FieldNames() []string {
	names := make([]string, 0, len(m.fields)+len(m.files))
	for _, f := range m.fields {
		names = append(names, f.name)
	}
	for _, f := range m.files {
		names = append(names, f.field)
	}
	return names
}

// TotalSize sums the declared file sizes, or returns -1 if any is unknown.
func (m *Multipart) TotalSize() int64 {
	var total int64
	for _, f := range m.files {
		if f.file.Size < 0 {
			return -1
		}
		total += f.file.Size
	}
	return total
}

// Encode streams the body through a pipe. The returned content type carries
// the boundary the writer generated.
func (m *Multipart) Encode() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	go func() {
		err := m.write(mw)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, contentType
}

func (m *Multipart) write(mw *multipart.Writer) error {
	for _, f := range m.fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	total := m.TotalSize()
	var sent int64
	for _, part := range m.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.field), escapeQuotes(filepath.Base(part.file.Name))))
		header.Set("Content-Type", contentTypeFor(part.file.Name))

		w, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create part %s: %w", part.field, err)
		}
		if part.file.Content == nil {
			continue
		}

		src := part.file.Content
		if m.OnProgress != nil {
			src = &countingReader{r: src, onRead: func(n int) {
				sent += int64(n)
				m.OnProgress(sent, total)
			}}
		}
		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("copy part %s: %w", part.field, err)
		}
	}
	return nil
}

type countingReader struct {
	r      io.Reader
	onRead func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onRead(n)
	}
	return n, err
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
