package services

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/campus/internal/client/models"
)

// Requester is the slice of *api.Client the services use.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return models.ValidRut(fl.Field().String())
	})
	return v
}

func resource(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
