package services

import (
	"context"

	"github.com/dmitrijs2005/campus/internal/client/models"
)

const (
	MsgCourseNotFound    = "Curso no encontrado"
	MsgCourseFetchFailed = "No se pudo cargar el curso"
	MsgCoursesFailed     = "No se pudieron cargar los cursos"
)

type CourseService struct {
	r Requester
}

func NewCourseService(r Requester) *CourseService {
	return &CourseService{r: r}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := s.r.Get(ctx, "/courses", &out); err != nil {
		return nil, fail("courses.list", MsgCoursesFailed, nil, err)
	}
	return out, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	var out models.Course
	if err := s.r.Get(ctx, resource("/courses", id), &out); err != nil {
		return nil, failLookup("courses.get", MsgCourseNotFound, MsgCourseFetchFailed, err)
	}
	return &out, nil
}
