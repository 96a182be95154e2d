package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type InboxService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *InboxService) Submit(ctx context.Context, cmd ContactCommand) (*models.Message, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Message = strings.TrimSpace(cmd.Message)
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	m := &models.Message{
		Name:    cmd.Name,
		Email:   cmd.Email,
		Message: cmd.Message,
		Status:  models.MessageUnread,
	}
	if err := s.Repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.TopicMessages, m.ID.String(), map[string]any{
			"type":      "message_received",
			"messageId": m.ID,
			"email":     m.Email,
		}); err != nil {
			logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicMessages, "error", err)
		}
	}
	return m, nil
}

func (s *InboxService) GetMessages(ctx context.Context, page int) (util.Page[models.Message], error) {
	page, size := util.Normalize(page, util.AdminPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := s.Repo.GetMessages(ctx, offset, limit)
	if err != nil {
		return util.Page[models.Message]{}, err
	}
	return util.Page[models.Message]{Data: items, Meta: util.NewMeta(page, size, total)}, nil
}

// SetStatus allows any transition between unread, read and resolved.
func (s *InboxService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Message, error) {
	st := models.MessageStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, FieldInvalid("status", "must be one of: unread, read, resolved")
	}
	m, err := s.Repo.SetMessageStatus(ctx, id, st)
	if err != nil {
		return nil, notFound("message", err)
	}
	return m, nil
}

func (s *InboxService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", notFound("message", err))
	}
	return nil
}
