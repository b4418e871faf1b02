package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/uniadmin/ums-api/internal/models"
)

// NewValidator builds the request validator with the domain value sets
// registered. The built-in oneof tag cannot express values containing
// spaces, so the closed sets get dedicated tags instead.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("accountrole", func(fl validator.FieldLevel) bool {
		return models.ValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation("edusystem", func(fl validator.FieldLevel) bool {
		return models.ValidEducationSystem(fl.Field().String())
	})
	_ = v.RegisterValidation("subjecttype", func(fl validator.FieldLevel) bool {
		return models.ValidSubjectType(fl.Field().String())
	})
	_ = v.RegisterValidation("programstatus", func(fl validator.FieldLevel) bool {
		return models.ValidProgramStatus(fl.Field().String())
	})
	return v
}
