package service

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
)

// SendMessageRequest is the body of POST /api/users/{id}/messages
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4096"`
}

// MessageService reads conversations and queues outgoing messages
type MessageService struct {
	contacts *repository.ContactRepository
	messages *repository.MessageRepository
	events   *events.Publisher
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(
	contacts *repository.ContactRepository,
	messages *repository.MessageRepository,
	eventPublisher *events.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		contacts: contacts,
		messages: messages,
		events:   eventPublisher,
		metrics:  m,
		logger:   log,
	}
}

// Thread returns one page of a contact's conversation, newest first
func (s *MessageService) Thread(ctx context.Context, contactID int64, filter repository.ThreadFilter) (httputil.Page[repository.Message], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Message]{}, err
	}
	if _, err := s.contacts.GetByID(ctx, contactID, scope); err != nil {
		return httputil.Page[repository.Message]{}, err
	}

	rows, err := s.messages.ListThread(ctx, contactID, scope, filter)
	if err != nil {
		return httputil.Page[repository.Message]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Inbox returns the latest messages across the caller's contacts
func (s *MessageService) Inbox(ctx context.Context, filter repository.InboxFilter) (httputil.Page[repository.InboxMessage], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.InboxMessage]{}, err
	}

	rows, err := s.messages.Inbox(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.InboxMessage]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Send stores an outgoing message for a contact the caller owns and hands it
// to the WhatsApp gateway.
func (s *MessageService) Send(ctx context.Context, contactID int64, req *SendMessageRequest) (*repository.Message, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(ctx, contactID, scope)
	if err != nil {
		return nil, err
	}

	msg := &repository.Message{
		UserID:      contact.ID,
		AdminID:     contact.AssignedAdminID,
		MessageText: req.Message,
		MessageType: domain.MessageOutgoing,
		Status:      domain.MessageSent,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.metrics.RecordMessage(domain.MessageOutgoing)
	s.events.PublishMessageSent(ctx, msg, contact.Phone)
	return msg, nil
}
