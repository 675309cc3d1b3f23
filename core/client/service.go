package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
)

var (
	// errors
	ErrNotFound = errors.New("client not found")

	// failure messages surfaced in mutation results
	msgNotFound       = "Client not found."
	msgAlreadyDone    = "Onboarding is already complete."
	msgStorageFailure = "Could not update client, please try again."

	errUnknownTask = "unknown follow-up task"
)

const auditEntity = "client"

type (
	Repository interface {
		CreateClient(ctx context.Context, cl Client) (Client, error)
		QueryAllClients(ctx context.Context) ([]Client, error)
		GetClientByID(ctx context.Context, id string) (Client, error)
		// FilterClients applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// Client.FirstName, Client.LastName, Client.Email or Client.Phone.
		FilterClients(ctx context.Context, filter QueryFilter) ([]Client, error)
		UpdateClient(ctx context.Context, cl Client) (Client, error)
		// UpdateClientFollowUp patches followUp and onboardingStatus as a
		// single atomic write; a reader never observes them out of sync.
		UpdateClientFollowUp(ctx context.Context, id string, task Task, status Status) (Client, error)
		// AdjustClientBalance atomically adds delta to currentBalance.
		AdjustClientBalance(ctx context.Context, id string, delta float64) (Client, error)
		DeleteClientByID(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		audit  *audit.Service
		logger core.Logger
	}
)

func NewService(repo Repository, auditSvc *audit.Service, logger core.Logger) *Service {
	return &Service{repo: repo, audit: auditSvc, logger: logger}
}

func (svc *Service) Create(ctx context.Context, nc NewClient) (Client, error) {
	now := time.Now().UTC()
	cl := Client{
		FirstName:        nc.FirstName,
		LastName:         nc.LastName,
		Email:            nc.Email,
		Phone:            nc.Phone,
		ReferralSource:   nc.ReferralSource,
		Notes:            nc.Notes,
		FollowUp:         nc.FollowUp,
		OnboardingStatus: StatusOf(nc.FollowUp),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateClient(ctx, cl)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Client, error) {
	return svc.repo.QueryAllClients(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Client, error) {
	return svc.repo.GetClientByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Client, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllClients(ctx)
	}
	return svc.repo.FilterClients(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClient) (Client, error) {
	orig, err := svc.repo.GetClientByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if err := uc.Validate(orig); err != nil {
		return Client{}, err
	}

	orig.FirstName = uc.FirstName
	orig.LastName = uc.LastName
	orig.Email = uc.Email
	orig.Phone = uc.Phone
	orig.ReferralSource = uc.ReferralSource
	orig.Notes = uc.Notes
	orig.ClassID = uc.ClassID
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClient(ctx, orig)
}

// AdjustBalance atomically adds delta (negative for payments received) to a
// client's current balance.
func (svc *Service) AdjustBalance(ctx context.Context, id string, delta float64) (Client, error) {
	return svc.repo.AdjustClientBalance(ctx, id, delta)
}

// CompleteCurrentTask checks off a client's current manual follow-up task:
// the stored pair moves to (Next(current), StatusOf(Next(current))) in one
// atomic patch. Terminal and automatic current tasks are precondition
// violations reported as structured failures without touching storage.
func (svc *Service) CompleteCurrentTask(ctx context.Context, actor, id string) TaskResult {
	cl, err := svc.repo.GetClientByID(ctx, id)
	if err != nil {
		return svc.failure(err, "loading client for task completion")
	}

	cur := cl.FollowUp
	if cur.IsTerminal() {
		return TaskResult{Success: false, Message: msgAlreadyDone}
	}
	if cur.IsAutomatic() {
		return TaskResult{
			Success: false,
			Message: fmt.Sprintf("%q awaits automated confirmation and cannot be completed manually.", cur),
		}
	}

	next, unexpected := Next(cur)
	if unexpected {
		// unrecognized stored value; mapped to a safe default so the
		// pipeline keeps moving
		svc.logger.Warn(
			"unexpected follow-up value during task completion",
			map[string]interface{}{"clientId": id, "followUp": string(cur), "next": string(next)},
		)
	}

	return svc.applyTask(ctx, actor, id, cur, next, audit.ActionCompleteTask)
}

// SetTask is the operator override: it moves a client to any member of the
// closed task enumeration (terminal included) regardless of current state.
func (svc *Service) SetTask(ctx context.Context, actor, id string, task Task) TaskResult {
	if !task.Known() {
		return TaskResult{Success: false, Message: fmt.Sprintf("Unknown follow-up task %q.", task)}
	}

	cl, err := svc.repo.GetClientByID(ctx, id)
	if err != nil {
		return svc.failure(err, "loading client for task override")
	}

	return svc.applyTask(ctx, actor, id, cl.FollowUp, task, audit.ActionSetTask)
}

// ResolveAutomatic advances a client past an automation-owned checkpoint.
// It only applies when the client is actually parked on the given automatic
// task; anything else is a logged no-op so stray automation callbacks can
// never corrupt the pipeline.
func (svc *Service) ResolveAutomatic(ctx context.Context, actor, id string, auto Task) (bool, error) {
	if !auto.IsAutomatic() {
		return false, fmt.Errorf("task %q is not automatic", auto)
	}

	cl, err := svc.repo.GetClientByID(ctx, id)
	if err != nil {
		return false, err
	}
	if cl.FollowUp != auto {
		svc.logger.Info(
			"automation callback ignored: client not awaiting this task",
			map[string]interface{}{"clientId": id, "followUp": string(cl.FollowUp), "callback": string(auto)},
		)
		return false, nil
	}

	res := svc.applyTask(ctx, actor, id, auto, successors[auto], audit.ActionAutoResolve)
	if !res.Success {
		return false, errors.New(res.Message)
	}
	return true, nil
}

// Delete removes a client record. Deletion is idempotent: an already-absent
// id reports success with a distinct message.
func (svc *Service) Delete(ctx context.Context, actor, id string) DeleteResult {
	if err := svc.repo.DeleteClientByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{Success: true, Message: "Client already deleted."}
		}
		svc.logger.Error("deleting client", err, map[string]interface{}{"clientId": id})
		return DeleteResult{Success: false, Message: msgStorageFailure}
	}
	svc.audit.Record(ctx, actor, auditEntity, id, audit.ActionDelete, nil)
	return DeleteResult{Success: true, Message: "Client deleted."}
}

// applyTask writes the (task, status) pair atomically and records the move.
func (svc *Service) applyTask(ctx context.Context, actor, id string, from, to Task, action string) TaskResult {
	status := StatusOf(to)
	if _, err := svc.repo.UpdateClientFollowUp(ctx, id, to, status); err != nil {
		return svc.failure(err, "patching follow-up")
	}

	svc.audit.Record(ctx, actor, auditEntity, id, action, map[string]interface{}{
		"followUp":         map[string]string{"from": string(from), "to": string(to)},
		"onboardingStatus": string(status),
	})
	return TaskResult{Success: true, NextFollowUp: to, NewOnboardingStatus: status}
}

func (svc *Service) failure(err error, msg string) TaskResult {
	if errors.Is(err, ErrNotFound) {
		return TaskResult{Success: false, Message: msgNotFound}
	}
	svc.logger.Error(msg, err)
	return TaskResult{Success: false, Message: msgStorageFailure}
}
