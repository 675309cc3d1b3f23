package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core"
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry) (Entry, error)
		QueryAllEntries(ctx context.Context) ([]Entry, error)
		// FilterEntries applies AND operation on available QueryFilter fields.
		FilterEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an audit entry. The trail is best-effort: a failed write is
// logged and swallowed so it never fails the mutation being audited.
func (svc *Service) Record(ctx context.Context, actor, entity, entityID, action string, changes map[string]interface{}) {
	entry := Entry{
		Actor:     actor,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			svc.logger.Error("marshaling audit changes", errors.Wrap(err, "marshaling audit changes"))
		} else {
			entry.Changes = null.JSONFrom(data)
		}
	}
	if _, err := svc.repo.CreateEntry(ctx, entry); err != nil {
		svc.logger.Error("recording audit entry", errors.Wrap(err, "recording audit entry"))
	}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Entry, error) {
	return svc.repo.QueryAllEntries(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllEntries(ctx)
	}
	return svc.repo.FilterEntries(ctx, filter)
}
