package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/campus/internal/client/models"
)

const (
	MsgEnrollmentNotFound    = "Inscripción no encontrada"
	MsgEnrollmentFetchFailed = "No se pudo cargar la inscripción"
	MsgEnrollmentsFailed     = "No se pudieron cargar tus inscripciones"
	MsgEnrollFailed          = "No se pudo realizar la inscripción"
	MsgEnrollMissingCourse   = "Indica el curso a inscribir"
	MsgCancelFailed          = "No se pudo anular la inscripción"
)

type EnrollmentService struct {
	r Requester
}

func NewEnrollmentService(r Requester) *EnrollmentService {
	return &EnrollmentService{r: r}
}

func (s *EnrollmentService) List(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := s.r.Get(ctx, "/enrollments", &out); err != nil {
		return nil, fail("enrollments.list", MsgEnrollmentsFailed, nil, err)
	}
	return out, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	var out models.Enrollment
	if err := s.r.Get(ctx, resource("/enrollments", id), &out); err != nil {
		return nil, failLookup("enrollments.get", MsgEnrollmentNotFound, MsgEnrollmentFetchFailed, err)
	}
	return &out, nil
}

func (s *EnrollmentService) Enroll(ctx context.Context, courseID string) (*models.Enrollment, error) {
	const op = "enrollments.enroll"

	req := models.EnrollRequest{CourseID: strings.TrimSpace(courseID)}
	if err := validate.StructCtx(ctx, req); err != nil {
		return nil, invalid(op, MsgEnrollMissingCourse, err)
	}

	var out models.Enrollment
	if err := s.r.Post(ctx, "/enrollments", req, &out); err != nil {
		return nil, fail(op, MsgEnrollFailed, nil, err)
	}
	return &out, nil
}

func (s *EnrollmentService) Cancel(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, resource("/enrollments", id)); err != nil {
		return fail("enrollments.cancel", MsgCancelFailed, nil, err)
	}
	return nil
}
