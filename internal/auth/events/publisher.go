package events

import (
	"context"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
)

// AdminEventPublisher publishes admin account events
type AdminEventPublisher struct {
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewAdminEventPublisher creates a new admin event publisher
func NewAdminEventPublisher(publisher messaging.EventPublisher, m *metrics.Metrics, log *logger.Logger) *AdminEventPublisher {
	return &AdminEventPublisher{
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// PublishSignedUp publishes an admin signed up event
func (p *AdminEventPublisher) PublishSignedUp(ctx context.Context, admin *domain.Admin) {
	p.publish(ctx, messaging.EventAdminSignedUp, admin.ID, messaging.AdminEvent{
		AdminID:   admin.ID,
		Name:      admin.Name,
		Phone:     admin.Phone,
		AdminTier: string(admin.AdminTier),
		Status:    string(admin.Status),
	})
}

// PublishUpdated publishes an admin updated event with the changed fields
func (p *AdminEventPublisher) PublishUpdated(ctx context.Context, admin *domain.Admin, changes map[string]any) {
	p.publish(ctx, messaging.EventAdminUpdated, admin.ID, messaging.AdminEvent{
		AdminID:   admin.ID,
		AdminTier: string(admin.AdminTier),
		Status:    string(admin.Status),
		Fields:    changes,
		ActorID:   actorID(ctx),
	})
}

// PublishDeleted publishes an admin deleted event
func (p *AdminEventPublisher) PublishDeleted(ctx context.Context, adminID int64) {
	p.publish(ctx, messaging.EventAdminDeleted, adminID, messaging.AdminEvent{
		AdminID: adminID,
		ActorID: actorID(ctx),
	})
}

func (p *AdminEventPublisher) publish(ctx context.Context, eventType string, adminID int64, data messaging.AdminEvent) {
	err := p.publisher.Publish(ctx, eventType, data)
	p.metrics.RecordEventPublished(eventType, err)
	if err != nil {
		p.logger.Error().Err(err).Int64("admin_id", adminID).Str("event_type", eventType).Msg("failed to publish admin event")
	}
}

func actorID(ctx context.Context) int64 {
	if a := actor.FromContext(ctx); a != nil {
		return a.ID
	}
	return 0
}
