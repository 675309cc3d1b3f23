package audit

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Actions recorded against entities.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionCompleteTask = "complete-task"
	ActionSetTask      = "set-task"
	ActionAutoResolve  = "auto-resolve"
)

// Entry is one append-only audit record: who did what to which entity,
// with the changed fields captured as JSON.
type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityID"`
	Action    string    `json:"action"`
	Changes   null.JSON `json:"changes,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

type QueryFilter struct {
	Entity   string `query:"entity"`
	EntityID string `query:"entity_id"`
	Actor    string `query:"actor"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Entity == "" && qf.EntityID == "" && qf.Actor == ""
}
