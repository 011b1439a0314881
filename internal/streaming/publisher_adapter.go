package streaming

import (
	"context"

	"scambait-lab/internal/domain/models"
)

// ServicePublisher adapts the NATS publisher to the engagement service's
// EventPublisher interface.
type ServicePublisher struct {
	nats *NATSPublisher
}

// NewServicePublisher creates the adapter. nats may be nil; publishes become no-ops.
func NewServicePublisher(nats *NATSPublisher) *ServicePublisher {
	return &ServicePublisher{nats: nats}
}

// PublishIntelCaptured publishes one capture event
func (p *ServicePublisher) PublishIntelCaptured(ctx context.Context, sessionID string, record models.IntelRecord) error {
	if p.nats == nil {
		return nil
	}
	return p.nats.PublishIntelEvent(ctx, NewIntelCapturedEvent(sessionID, record))
}

// PublishSessionClosed publishes the finalized session report
func (p *ServicePublisher) PublishSessionClosed(ctx context.Context, report *models.SessionReport) error {
	if p.nats == nil {
		return nil
	}
	return p.nats.PublishIntelEvent(ctx, NewSessionClosedEvent(report))
}
