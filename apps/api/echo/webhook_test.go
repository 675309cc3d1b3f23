package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/client"
	emailsvc "github.com/amanihq/amani/services/email"
)

const testIntakeSecret = "intake-secret-for-tests"

func withIntakeSecret(t *testing.T) {
	orig := core.Conf.IntakeWebhookSecret
	core.Conf.IntakeWebhookSecret = testIntakeSecret
	t.Cleanup(func() { core.Conf.IntakeWebhookSecret = orig })
}

func postIntake(srv Server, secret string, body string) (*httptest.ResponseRecorder, int) {
	req, rec := newRequest(http.MethodPost, "/v1/webhooks/intake", []byte(body))
	if secret != "" {
		req.Header.Set(intakeSecretHeader, secret)
	}
	srv.ServeHTTP(rec, req)
	return rec, rec.Code
}

func Test_webhookApi_intake_secretRequired(t *testing.T) {
	withIntakeSecret(t)
	srv, _ := newTestServer(t)

	_, code := postIntake(srv, "", `{"contact":{"name":{"first":"Ayanda"}}}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, code = postIntake(srv, "wrong", `{"contact":{"name":{"first":"Ayanda"}}}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func Test_webhookApi_intake_disabledWithoutSecret(t *testing.T) {
	// no configured secret means the endpoint is off, not open
	orig := core.Conf.IntakeWebhookSecret
	core.Conf.IntakeWebhookSecret = ""
	t.Cleanup(func() { core.Conf.IntakeWebhookSecret = orig })
	srv, _ := newTestServer(t)

	_, code := postIntake(srv, "anything", `{"contact":{"name":{"first":"Ayanda"}}}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func Test_webhookApi_intake_contactShape(t *testing.T) {
	withIntakeSecret(t)
	srv, svcs := newTestServer(t)

	body := `{
		"formName": "Sign-Up",
		"contact": {
			"name": {"first": "Ayanda", "last": "Khumalo"},
			"email": "ayanda@example.com",
			"phone": "+27115550101"
		}
	}`
	sentBefore := len(emailsvc.SentMessages)
	rec, code := postIntake(srv, testIntakeSecret, body)
	require.Equal(t, http.StatusOK, code)

	var res IntakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.NotEmpty(t, res.ClientID)

	// admin got notified
	require.Greater(t, len(emailsvc.SentMessages), sentBefore)
	assert.Contains(t, emailsvc.SentMessages[len(emailsvc.SentMessages)-1].Subject, "Ayanda Khumalo")

	cl, err := svcs.clients.GetByID(context.Background(), res.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Ayanda Khumalo", cl.FullName())
	assert.Equal(t, "ayanda@example.com", cl.Email)
	assert.True(t, cl.FollowUp.IsUnset())
	assert.Equal(t, client.StatusInitiation, cl.OnboardingStatus)
}

func Test_webhookApi_intake_fieldKeyShape(t *testing.T) {
	withIntakeSecret(t)
	srv, svcs := newTestServer(t)

	body := `{
		"data": {
			"field:first_name_13c3": "Bongani",
			"field:last_name_7aa5": "Zulu",
			"field:email_65e2": "bongani@example.com",
			"field:who_asked_you_to_take_this_class": "My employer"
		}
	}`
	rec, code := postIntake(srv, testIntakeSecret, body)
	require.Equal(t, http.StatusOK, code)

	var res IntakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	cl, err := svcs.clients.GetByID(context.Background(), res.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Bongani", cl.FirstName)
	assert.Equal(t, "My employer", cl.ReferralSource)
}

func Test_webhookApi_intake_submissionsShape(t *testing.T) {
	withIntakeSecret(t)
	srv, svcs := newTestServer(t)

	body := `{
		"data": {
			"submissions": [
				{"label": "First name", "value": "Zanele"},
				{"label": "Last name", "value": "Mthembu"},
				{"label": "Email", "value": "zanele@example.com"},
				{"label": "Phone", "value": "+27115550102"},
				{"label": "What class are you taking?", "value": "Anger management"}
			]
		}
	}`
	rec, code := postIntake(srv, testIntakeSecret, body)
	require.Equal(t, http.StatusOK, code)

	var res IntakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	cl, err := svcs.clients.GetByID(context.Background(), res.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Zanele Mthembu", cl.FullName())
	assert.Equal(t, "Anger management", cl.Notes)
}

func Test_webhookApi_intake_unusablePayload(t *testing.T) {
	withIntakeSecret(t)
	srv, _ := newTestServer(t)

	_, code := postIntake(srv, testIntakeSecret, `{"formName": "Sign-Up"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
