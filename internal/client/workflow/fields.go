package workflow

import (
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/validation"
)

// PrototypeFields is the submit/edit form.
type PrototypeFields struct {
	Title                string `json:"title" validate:"required,max=255"`
	Abstract             string `json:"abstract"`
	AcademicYear         string `json:"academic_year"`
	HasPhysicalPrototype bool   `json:"has_physical_prototype"`
	DepartmentID         int64  `json:"department,omitempty"`
	SupervisorID         int64  `json:"supervisor,omitempty"`
	StudentID            int64  `json:"student,omitempty"`

	// Selected files are never persisted in drafts.
	Report     *client.File `json:"-"`
	SourceCode *client.File `json:"-"`
}

type ReviewFields struct {
	Feedback string `json:"feedback" validate:"required"`
}

type StorageFields struct {
	StorageLocation string `json:"storage_location" validate:"required,max=255"`
}

// Fields holds the editable state of a modal. Only the part matching the
// modal kind is used.
type Fields struct {
	Prototype PrototypeFields `json:"prototype"`
	Review    ReviewFields    `json:"review"`
	Storage   StorageFields   `json:"storage"`
}

func (f *Fields) trim() {
	f.Prototype.Title = strings.TrimSpace(f.Prototype.Title)
	f.Prototype.Abstract = strings.TrimSpace(f.Prototype.Abstract)
	f.Prototype.AcademicYear = strings.TrimSpace(f.Prototype.AcademicYear)
	f.Review.Feedback = strings.TrimSpace(f.Review.Feedback)
	f.Storage.StorageLocation = strings.TrimSpace(f.Storage.StorageLocation)
}

func (f *Fields) clearFiles() {
	f.Prototype.Report = nil
	f.Prototype.SourceCode = nil
}

// seed fills the form from a fetched record.
func seed(kind Kind, p models.Prototype) Fields {
	var f Fields
	switch kind {
	case KindEdit, KindViewDetail:
		f.Prototype = PrototypeFields{
			Title:                p.Title,
			Abstract:             p.Abstract,
			AcademicYear:         p.AcademicYear,
			HasPhysicalPrototype: p.HasPhysicalPrototype,
			DepartmentID:         p.Department.ID,
			SupervisorID:         p.SupervisorID(),
		}
	case KindReview:
		f.Review.Feedback = p.Feedback
	case KindAssignStorage:
		f.Storage.StorageLocation = string(p.StorageLocation)
	case KindSubmit:
	}
	return f
}

func validate(kind Kind, f Fields) error {
	switch kind {
	case KindSubmit, KindEdit:
		return validation.Struct(f.Prototype)
	case KindReview:
		return validation.Struct(f.Review)
	case KindAssignStorage:
		return validation.Struct(f.Storage)
	default:
		return nil
	}
}

func (p PrototypeFields) form() *client.PrototypeForm {
	return &client.PrototypeForm{
		Title:                p.Title,
		Abstract:             p.Abstract,
		HasPhysicalPrototype: p.HasPhysicalPrototype,
		AcademicYear:         p.AcademicYear,
		DepartmentID:         p.DepartmentID,
		SupervisorID:         p.SupervisorID,
		StudentID:            p.StudentID,
		Report:               p.Report,
		SourceCode:           p.SourceCode,
	}
}
