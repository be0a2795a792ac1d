package validate

import (
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/types"
)

// structValidator checks whole records against the validate:"..." tags on
// types.Student. A *validator.Validate caches struct metadata, so one
// instance is built and shared.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Stored names and programmes must already be in their collapsed form:
	// a record read back from disk is held to the same rules as one typed in.
	_ = v.RegisterValidation("studentname", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == Collapse(s) && allRunes(s, isNameRune)
	})
	_ = v.RegisterValidation("programme", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == Collapse(s) && allRunes(s, isProgrammeRune)
	})
	_ = v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return grade.Grade(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		s := sl.Current().Interface().(types.Student)
		if s.Marks != RoundMarks(s.Marks) {
			sl.ReportError(s.Marks, "Marks", "Marks", "onedecimal", "")
		}
		if s.Grade != grade.Calculate(s.Marks) {
			sl.ReportError(s.Grade, "Grade", "Grade", "gradeconsistent", "")
		}
	}, types.Student{})

	return v
}

// Record validates a complete student record. A failure is a
// validator.ValidationErrors listing every broken rule.
func Record(s types.Student) error {
	return structValidator.Struct(s)
}

func allRunes(s string, ok func(rune) bool) bool {
	for _, r := range s {
		if !ok(r) {
			return false
		}
	}
	return true
}
