package validation

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Document extensions accepted for CV and cover letter uploads.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Upload is a document attached to an application form.
type Upload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// ApplicationForm carries the candidate's submitted fields before any I/O.
type ApplicationForm struct {
	FirstName              string
	LastName               string
	Email                  string
	Phone                  string
	Gender                 string
	Age                    int
	ProfessionalExperience string
	Skills                 string
	Diploma                string
	YearsOfExperience      int
	PreviousCompany        string
	CV                     *Upload
	CoverLetter            *Upload
}

// Validate checks every field and returns all failures at once so the
// caller can surface them per-field. No network or storage calls happen
// until this passes.
func (f *ApplicationForm) Validate() *ValidationResult {
	r := &ValidationResult{}

	requireMinLen(r, "firstName", f.FirstName, 2, "Le prénom est requis")
	requireMinLen(r, "lastName", f.LastName, 2, "Le nom est requis")

	if !emailPattern.MatchString(f.Email) {
		r.add("email", "Email invalide", "INVALID_EMAIL")
	}
	requireMinLen(r, "phone", f.Phone, 8, "Numéro de téléphone invalide")

	if f.Gender != "homme" && f.Gender != "femme" {
		r.add("gender", "Genre invalide", "INVALID_ENUM")
	}
	if f.Age < 18 {
		r.add("age", "Vous devez avoir au moins 18 ans", "BELOW_MINIMUM")
	}

	requireMinLen(r, "professionalExperience", f.ProfessionalExperience, 10, "Veuillez décrire votre expérience")
	requireMinLen(r, "skills", f.Skills, 10, "Veuillez décrire vos compétences")
	requireMinLen(r, "diploma", f.Diploma, 2, "Diplôme requis")

	if f.YearsOfExperience < 0 {
		r.add("yearsOfExperience", "Nombre d'années invalide", "BELOW_MINIMUM")
	}

	checkUpload(r, "cv", f.CV, "CV requis")
	checkUpload(r, "coverLetter", f.CoverLetter, "Lettre de motivation requise")

	return r.finish()
}

func requireMinLen(r *ValidationResult, field, value string, min int, message string) {
	if len(strings.TrimSpace(value)) < min {
		r.add(field, message, "TOO_SHORT")
	}
}

func checkUpload(r *ValidationResult, field string, u *Upload, requiredMsg string) {
	if u == nil || u.Filename == "" {
		r.add(field, requiredMsg, "REQUIRED_FIELD_MISSING")
		return
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !allowedExtensions[ext] {
		r.add(field, "Format de fichier non accepté (.pdf, .doc, .docx)", "INVALID_FILE_TYPE")
	}
}
