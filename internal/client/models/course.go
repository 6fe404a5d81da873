package models

import "time"

type Course struct {
	ID          string `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Instructor  string `json:"docente,omitempty"`
	Credits     int    `json:"creditos"`
}

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "activa"
	EnrollmentCancelled EnrollmentStatus = "anulada"
	EnrollmentCompleted EnrollmentStatus = "aprobada"
)

type Enrollment struct {
	ID         string           `json:"id"`
	CourseID   string           `json:"curso_id"`
	Course     *Course          `json:"curso,omitempty"`
	Status     EnrollmentStatus `json:"estado"`
	EnrolledAt time.Time        `json:"fecha_inscripcion"`
}

type EnrollRequest struct {
	CourseID string `json:"curso_id" validate:"required"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"titulo"`
	Body      string    `json:"mensaje"`
	Read      bool      `json:"leida"`
	CreatedAt time.Time `json:"fecha"`
}
