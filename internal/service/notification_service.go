package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/google/uuid"
)

const notificationPageSize = 100

// --- DTOs ---

type NotificationResponse struct {
	ID            uuid.UUID     `json:"id"`
	RequestID     *uint         `json:"request_id,omitempty"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	ActionType    string        `json:"action_type"`
	ActorUsername string        `json:"actor_username,omitempty"`
	ActorRole     workflow.Role `json:"actor_role,omitempty"`
	Note          string        `json:"note,omitempty"`
	IsRead        bool          `json:"is_read"`
	CreatedAt     string        `json:"created_at"`
}

// Notice is one workflow event to fan out to a request's watchers.
type Notice struct {
	RequestID  *uint
	Recipients []string
	Title      string
	Message    string
	ActionType string
	ActorUser  string
	ActorRole  workflow.Role
	Note       string
}

// --- Interface ---

type NotificationService interface {
	ListForUser(ctx context.Context, username string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, username string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, username string) error

	// Notify persists one notification per recipient; used inside
	// workflow transactions.
	Notify(ctx context.Context, notice Notice) error
	// Watchers resolves who should hear about changes to a request:
	// the creator, the department manager, and all finance and
	// disbursement users.
	Watchers(ctx context.Context, pr *model.PurchaseRequest) []string
}

type notificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{notifications: notifications, users: users}
}

// --- Implementation ---

func (s *notificationService) ListForUser(ctx context.Context, username string) ([]NotificationResponse, error) {
	rows, err := s.notifications.ListForUser(ctx, username, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	result := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		result = append(result, NotificationResponse{
			ID:            n.ID,
			RequestID:     n.RequestID,
			Title:         n.Title,
			Message:       n.Message,
			ActionType:    n.ActionType,
			ActorUsername: n.ActorUsername,
			ActorRole:     n.ActorRole,
			Note:          n.Note,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, username string, id uuid.UUID) error {
	// Scoped lookup first: users may only touch their own notifications.
	if _, err := s.notifications.FindForUser(ctx, id, username); err != nil {
		return errors.New("notification not found")
	}
	return s.notifications.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, username string) error {
	return s.notifications.MarkAllRead(ctx, username)
}

func (s *notificationService) Notify(ctx context.Context, notice Notice) error {
	batch := make([]model.Notification, 0, len(notice.Recipients))
	for _, recipient := range notice.Recipients {
		if recipient == "" {
			continue
		}
		batch = append(batch, model.Notification{
			RequestID:         notice.RequestID,
			RecipientUsername: recipient,
			Title:             notice.Title,
			Message:           notice.Message,
			ActionType:        notice.ActionType,
			ActorUsername:     notice.ActorUser,
			ActorRole:         notice.ActorRole,
			Note:              notice.Note,
		})
	}
	if err := s.notifications.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

func (s *notificationService) Watchers(ctx context.Context, pr *model.PurchaseRequest) []string {
	seen := map[string]bool{}
	var recipients []string
	add := func(username string) {
		if username != "" && !seen[username] {
			seen[username] = true
			recipients = append(recipients, username)
		}
	}

	add(pr.CreatedBy)

	if manager, err := s.users.FirstManagerOfDepartment(ctx, pr.Department); err == nil {
		add(manager.Username)
	}
	for _, role := range []workflow.Role{workflow.RoleFinance, workflow.RoleDisbursement} {
		usernames, err := s.users.UsernamesByRole(ctx, role)
		if err != nil {
			continue
		}
		for _, u := range usernames {
			add(u)
		}
	}

	return recipients
}
