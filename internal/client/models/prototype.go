package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// StorageLocation is where a physical prototype is shelved. It is a plain
// string on the wire; an object of the form {"name": "..."} is also accepted
// when decoding.
type StorageLocation string

func (s *StorageLocation) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*s = StorageLocation(obj.Name)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = StorageLocation(str)
	return nil
}

// UserRef is a reference to a user that may arrive as an id or as a nested
// user object.
type UserRef struct {
	ID       int64
	Username string
}

func (u *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*u = UserRef{}
		return nil
	}
	if b[0] == '{' {
		var usr User
		if err := json.Unmarshal(b, &usr); err != nil {
			return err
		}
		*u = UserRef{ID: usr.ID, Username: usr.Username}
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	*u = UserRef{ID: id}
	return nil
}

func (u UserRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.ID)
}

// Attachment holds download URLs of the uploaded files.
type Attachment struct {
	ReportURL     string `json:"report,omitempty"`
	SourceCodeURL string `json:"source_code,omitempty"`
}

// Prototype is a student project record.
type Prototype struct {
	ID                   int64           `json:"id"`
	Title                string          `json:"title"`
	Abstract             string          `json:"abstract"`
	Student              UserRef         `json:"student"`
	Department           DepartmentRef   `json:"department"`
	Supervisor           UserRef         `json:"supervisor"`
	Supervisors          []UserRef       `json:"supervisors,omitempty"`
	AcademicYear         string          `json:"academic_year"`
	HasPhysicalPrototype bool            `json:"has_physical_prototype"`
	Status               Status          `json:"status"`
	Barcode              string          `json:"barcode,omitempty"`
	StorageLocation      StorageLocation `json:"storage_location,omitempty"`
	Feedback             string          `json:"feedback,omitempty"`
	Attachment           Attachment      `json:"attachment"`
	SubmissionDate       time.Time       `json:"submission_date"`
}

// StudentID is the id of the owning student.
func (p Prototype) StudentID() int64 {
	return p.Student.ID
}

// SupervisorID returns the single supervisor id, falling back to the first
// entry of the supervisors list.
func (p Prototype) SupervisorID() int64 {
	if p.Supervisor.ID != 0 {
		return p.Supervisor.ID
	}
	if len(p.Supervisors) > 0 {
		return p.Supervisors[0].ID
	}
	return 0
}

// Page is one page of a prototype listing. The backend answers either with
// {"results": [...], "count": N} or with a bare array.
type Page struct {
	Results []Prototype `json:"results"`
	Count   int         `json:"count"`
}

func (p *Page) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []Prototype
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page{Results: items, Count: len(items)}
		return nil
	}
	type page Page
	var raw page
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Results == nil {
		raw.Results = []Prototype{}
	}
	*p = Page(raw)
	return nil
}
