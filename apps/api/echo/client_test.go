package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/staff"
)

func seedClient(t *testing.T, svcs testServices, task client.Task) client.Client {
	cl, err := svcs.clients.Create(context.Background(), client.NewClient{
		FirstName: "Thandi",
		LastName:  "Mokoena",
		Email:     "thandi@example.com",
		FollowUp:  task,
	})
	require.NoError(t, err)
	return cl
}

func Test_clientApi_requiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req, rec := newRequest(http.MethodGet, "/v1/clients")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_clientApi_completeTask(t *testing.T) {
	srv, svcs := newTestServer(t)
	token := getToken(t, createStaff(t, svcs.staff, "nosipho", []string{staff.RoleCounselor}))

	t.Run("advances the pipeline", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskInitialContact)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/complete-task", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res client.TaskResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Success)
		assert.Equal(t, client.TaskCallClient, res.NextFollowUp)
		assert.Equal(t, client.StatusInitiation, res.NewOnboardingStatus)
	})

	t.Run("missing client still responds 200", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/00000000-0000-0000-0000-000000000000/complete-task", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Client not found."}`, rec.Body.String())
	})

	t.Run("automatic task cannot be checked off", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskConfirmPayment)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/complete-task", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res client.TaskResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Success)
	})
}

func Test_clientApi_setTask(t *testing.T) {
	srv, svcs := newTestServer(t)
	token := getToken(t, createStaff(t, svcs.staff, "lebo", []string{staff.RoleCounselor}))

	t.Run("clears pipeline via null", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskCallClient)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/set-task", token, []byte(`{"task":null}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"nextFollowUp":null,"newOnboardingStatus":"Complete"}`, rec.Body.String())
	})

	t.Run("accepts the None sentinel", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskCallClient)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/set-task", token, []byte(`{"task":"None"}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"nextFollowUp":null,"newOnboardingStatus":"Complete"}`, rec.Body.String())
	})

	t.Run("rejects unknown tasks without writing", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskCallClient)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/set-task", token, []byte(`{"task":"Ship It"}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res client.TaskResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Success)

		got, err := svcs.clients.GetByID(context.Background(), cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskCallClient, got.FollowUp)
	})
}

func Test_clientApi_destroy(t *testing.T) {
	srv, svcs := newTestServer(t)
	token := getToken(t, createStaff(t, svcs.staff, "zinhle", []string{staff.RoleAdmin}))

	cl := seedClient(t, svcs, client.TaskInitialContact)

	req, rec := newAuthRequest(http.MethodDelete, "/v1/clients/"+cl.ID, token)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Client deleted."}`, rec.Body.String())

	// gone already; still a success
	req, rec = newAuthRequest(http.MethodDelete, "/v1/clients/"+cl.ID, token)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Client already deleted."}`, rec.Body.String())
}

func Test_clientApi_createAndRetrieve(t *testing.T) {
	srv, svcs := newTestServer(t)
	token := getToken(t, createStaff(t, svcs.staff, "karabo", []string{staff.RoleCounselor}))

	body := []byte(`{"firstName":"Sipho","lastName":"Ndlovu","email":"sipho@example.com","followUp":"Initial Contact"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/clients", token, body)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created client.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, client.TaskInitialContact, created.FollowUp)
	assert.Equal(t, client.StatusInitiation, created.OnboardingStatus)

	req, rec = newAuthRequest(http.MethodGet, "/v1/clients/"+created.ID, token)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got client.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Sipho Ndlovu", got.FullName())
}

func Test_clientApi_confirmDocumentation(t *testing.T) {
	srv, svcs := newTestServer(t)
	token := getToken(t, createStaff(t, svcs.staff, "naledi", []string{staff.RoleCounselor}))

	t.Run("advances awaiting client", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskConfirmDocs)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/confirm-documentation", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"advanced":true}`, rec.Body.String())

		got, err := svcs.clients.GetByID(context.Background(), cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskAssignToClass, got.FollowUp)
		assert.Equal(t, client.StatusReadyForClass, got.OnboardingStatus)
	})

	t.Run("ignored when not awaiting", func(t *testing.T) {
		cl := seedClient(t, svcs, client.TaskCallClient)

		req, rec := newAuthRequest(http.MethodPost, "/v1/clients/"+cl.ID+"/confirm-documentation", token)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"advanced":false}`, rec.Body.String())
	})
}
