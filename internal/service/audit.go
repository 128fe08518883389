package service

import (
	"context"
	"log"

	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/repository"
)

// Auditor appends immutable action records. Failures are logged and
// swallowed: losing an audit row must never fail the operation it describes.
type Auditor struct {
	repo repository.AuditRepository
}

func NewAuditor(repo repository.AuditRepository) *Auditor {
	return &Auditor{repo: repo}
}

func (a *Auditor) Record(ctx context.Context, category, action string, actorID uint, actorName, details string) {
	entry := &models.AuditEntry{
		Category:  category,
		Action:    action,
		ActorID:   actorID,
		ActorName: actorName,
		Details:   details,
	}
	if err := a.repo.Insert(ctx, entry); err != nil {
		log.Printf("[Audit] failed to record %s/%s: %v", category, action, err)
	}
}
