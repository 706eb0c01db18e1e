package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Multipart keys understood by the backend's attachment serializer. The dotted
// names must be sent as-is.
const (
	FieldReport     = "attachment.report"
	FieldSourceCode = "attachment.source_code"
)

// File is an attachment selected for upload.
type File struct {
	Name string
	Data []byte
}

// PrototypeForm is the multipart payload for creating or editing a prototype.
// Zero ids and nil files are omitted from the encoded form.
type PrototypeForm struct {
	Title                string
	Abstract             string
	HasPhysicalPrototype bool
	AcademicYear         string
	DepartmentID         int64
	SupervisorID         int64
	StudentID            int64

	Report     *File
	SourceCode *File
}

// Encode writes the form as multipart/form-data and returns the body together
// with its Content-Type (which carries the boundary).
func (f *PrototypeForm) Encode() (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"title", f.Title},
		{"abstract", f.Abstract},
		{"has_physical_prototype", strconv.FormatBool(f.HasPhysicalPrototype)},
	}
	if f.AcademicYear != "" {
		fields = append(fields, [2]string{"academic_year", f.AcademicYear})
	}
	if f.DepartmentID != 0 {
		fields = append(fields, [2]string{"department", strconv.FormatInt(f.DepartmentID, 10)})
	}
	if f.SupervisorID != 0 {
		fields = append(fields, [2]string{"supervisor", strconv.FormatInt(f.SupervisorID, 10)})
	}
	if f.StudentID != 0 {
		fields = append(fields, [2]string{"student", strconv.FormatInt(f.StudentID, 10)})
	}

	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("error writing field %s: %w", kv[0], err)
		}
	}

	if err := writeFile(w, FieldReport, f.Report); err != nil {
		return nil, "", err
	}
	if err := writeFile(w, FieldSourceCode, f.SourceCode); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, field string, file *File) error {
	if file == nil {
		return nil
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filepath.Base(file.Name))))
	h.Set("Content-Type", mimetype.Detect(file.Data).String())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("error creating request part %s: %w", field, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("error writing to multipart request: %w", err)
	}
	return nil
}
