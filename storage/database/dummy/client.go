package dummydb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/client"
)

type clientRepository struct {
	db *clientTable
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(db *DB) *clientRepository {
	return &clientRepository{db: db.client}
}

func (repo *clientRepository) query() []client.Client {
	clients := make([]client.Client, 0, len(repo.db.table))
	for _, cl := range repo.db.table {
		clients = append(clients, *cl)
	}
	return clients
}

func (repo *clientRepository) CreateClient(_ context.Context, cl client.Client) (client.Client, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cl.ID = uuid.New().String()
	repo.db.table[cl.ID] = &cl
	return cl, nil
}

func (repo *clientRepository) QueryAllClients(_ context.Context) ([]client.Client, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *clientRepository) GetClientByID(_ context.Context, id string) (client.Client, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cl, ok := repo.db.table[id]; ok {
		return *cl, nil
	}
	return client.Client{}, client.ErrNotFound
}

func (repo *clientRepository) FilterClients(_ context.Context, filter client.QueryFilter) ([]client.Client, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	clients := repo.query()

	// clients with search keyword matching any FirstName, LastName, Email or Phone ?
	if filter.Search != "" {
		var filtered []client.Client
		kw := strings.ToLower(filter.Search)
		for _, cl := range clients {
			if strings.Contains(strings.ToLower(cl.FirstName), kw) ||
				strings.Contains(strings.ToLower(cl.LastName), kw) ||
				strings.Contains(strings.ToLower(cl.Email), kw) ||
				strings.Contains(strings.ToLower(cl.Phone), kw) {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}
	if clients != nil && len(filter.Statuses) > 0 {
		var filtered []client.Client
		for _, cl := range clients {
			for _, st := range filter.Statuses {
				if cl.OnboardingStatus == st {
					filtered = append(filtered, cl)
					break
				}
			}
		}
		clients = filtered
	}
	if clients != nil && len(filter.Tasks) > 0 {
		var filtered []client.Client
		for _, cl := range clients {
			for _, t := range filter.Tasks {
				if cl.FollowUp == t {
					filtered = append(filtered, cl)
					break
				}
			}
		}
		clients = filtered
	}
	if clients != nil && !filter.CreatedFrom.IsZero() {
		var filtered []client.Client
		timeUTC := filter.CreatedFrom.UTC()
		for _, cl := range clients {
			if cl.CreatedAt.Equal(timeUTC) || cl.CreatedAt.After(timeUTC) {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}
	if clients != nil && !filter.CreatedTo.IsZero() {
		var filtered []client.Client
		timeUTC := filter.CreatedTo.UTC()
		for _, cl := range clients {
			if cl.CreatedAt.Before(timeUTC) || cl.CreatedAt.Equal(timeUTC) {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}

	return clients, nil
}

func (repo *clientRepository) UpdateClient(_ context.Context, cl client.Client) (client.Client, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[cl.ID]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}
	orig.FirstName = cl.FirstName
	orig.LastName = cl.LastName
	orig.Email = cl.Email
	orig.Phone = cl.Phone
	orig.ReferralSource = cl.ReferralSource
	orig.Notes = cl.Notes
	orig.ClassID = cl.ClassID
	orig.UpdatedAt = cl.UpdatedAt
	return *orig, nil
}

func (repo *clientRepository) UpdateClientFollowUp(_ context.Context, id string, task client.Task, status client.Status) (client.Client, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// both fields move under one lock so no reader sees them out of sync
	cl, ok := repo.db.table[id]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}
	cl.FollowUp = task
	cl.OnboardingStatus = status
	return *cl, nil
}

func (repo *clientRepository) AdjustClientBalance(_ context.Context, id string, delta float64) (client.Client, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cl, ok := repo.db.table[id]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}
	cl.CurrentBalance += delta
	return *cl, nil
}

func (repo *clientRepository) DeleteClientByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return client.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
