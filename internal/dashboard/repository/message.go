package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// Message is one WhatsApp message of a contact's thread
type Message struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	AdminID     int64     `db:"admin_id" json:"admin_id"`
	MessageText string    `db:"message_text" json:"message_text"`
	MessageType string    `db:"message_type" json:"message_type"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// InboxMessage is a message with the contact it belongs to
type InboxMessage struct {
	Message
	ContactName  *string `db:"contact_name" json:"contact_name"`
	ContactPhone string  `db:"contact_phone" json:"contact_phone"`
}

// ThreadFilter pages through a contact's messages, newest first
type ThreadFilter struct {
	Before *time.Time
	httputil.Pagination
}

// InboxFilter narrows the inbox
type InboxFilter struct {
	Search string
	httputil.Pagination
}

const messageColumns = `m.id, m.user_id, m.admin_id, m.message_text, m.message_type, m.status, m.created_at`

// MessageRepository handles message persistence
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListThread lists a contact's messages, newest first. before restricts the
// page to older messages.
func (r *MessageRepository) ListThread(ctx context.Context, contactID int64, scope tenant.Scope, filter ThreadFilter) ([]Message, error) {
	f := database.NewFilter(scope, "m.admin_id").
		Where("m.user_id = ?", contactID)
	if filter.Before != nil {
		f.Where("m.created_at < ?", *filter.Before)
	}

	query, args := f.Build(
		`SELECT `+messageColumns+` FROM messages m`,
		`ORDER BY m.created_at DESC, m.id DESC LIMIT ? OFFSET ?`,
		filter.Probe(), filter.Offset,
	)

	messages := []Message{}
	if err := r.db.Q(ctx).SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Inbox lists the latest messages across contacts
func (r *MessageRepository) Inbox(ctx context.Context, scope tenant.Scope, filter InboxFilter) ([]InboxMessage, error) {
	query, args := database.NewFilter(scope, "m.admin_id").
		Search(filter.Search, "m.message_text", "c.name", "c.phone").
		Build(
			`SELECT `+messageColumns+`, c.name AS contact_name, c.phone AS contact_phone
			FROM messages m
			JOIN contacts c ON c.id = m.user_id`,
			`ORDER BY m.created_at DESC, m.id DESC LIMIT ? OFFSET ?`,
			filter.Probe(), filter.Offset,
		)

	messages := []InboxMessage{}
	if err := r.db.Q(ctx).SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return messages, nil
}

// Create stores a message
func (r *MessageRepository) Create(ctx context.Context, m *Message) error {
	if m.Status == "" {
		m.Status = domain.MessageSent
	}

	query := `
		INSERT INTO messages (user_id, admin_id, message_text, message_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		m.UserID, m.AdminID, m.MessageText, m.MessageType, m.Status,
	).Scan(&m.ID, &m.CreatedAt)

	return database.MapError(err, "message")
}

// AdvanceStatus moves a message's delivery status forward. It reports
// false when the message is missing or already at or past status.
func (r *MessageRepository) AdvanceStatus(ctx context.Context, id int64, status string) (bool, error) {
	query := `
		UPDATE messages SET status = $1
		WHERE id = $2
		  AND array_position(ARRAY['sent', 'delivered', 'read']::varchar[], status)
		    < array_position(ARRAY['sent', 'delivered', 'read']::varchar[], $1::varchar)
	`

	result, err := r.db.Q(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		return false, database.MapError(err, "message")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}
