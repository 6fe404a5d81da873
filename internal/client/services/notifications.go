package services

import (
	"context"

	"github.com/dmitrijs2005/campus/internal/client/models"
)

const (
	MsgNotificationNotFound    = "Notificación no encontrada"
	MsgNotificationFetchFailed = "No se pudo cargar la notificación"
	MsgNotificationsFailed     = "No se pudieron cargar las notificaciones"
	MsgMarkReadFailed          = "No se pudo marcar la notificación como leída"
)

type NotificationService struct {
	r Requester
}

func NewNotificationService(r Requester) *NotificationService {
	return &NotificationService{r: r}
}

func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.r.Get(ctx, "/notifications", &out); err != nil {
		return nil, fail("notifications.list", MsgNotificationsFailed, nil, err)
	}
	return out, nil
}

func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	var out models.Notification
	if err := s.r.Get(ctx, resource("/notifications", id), &out); err != nil {
		return nil, failLookup("notifications.get", MsgNotificationNotFound, MsgNotificationFetchFailed, err)
	}
	return &out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.r.Patch(ctx, resource("/notifications", id)+"/read", nil, nil); err != nil {
		return fail("notifications.mark_read", MsgMarkReadFailed, nil, err)
	}
	return nil
}
