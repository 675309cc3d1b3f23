package echoapi

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/client"
)

const intakeSecretHeader = "X-Intake-Secret"

type webhookApi struct {
	clients *client.Service
	mailSvc core.EmailService
	logger  core.Logger
}

func registerWebhookAPI(g *echo.Group, clientSvc *client.Service, mailSvc core.EmailService, logger core.Logger) {
	api := webhookApi{clients: clientSvc, mailSvc: mailSvc, logger: logger}

	// no JWT; callers hold a shared secret instead
	g.POST("/webhooks/intake", api.intake)
}

// intake receives sign-up form submissions from the website form provider.
// Providers have shipped at least three payload shapes over time, so
// extraction is deliberately tolerant; whatever can be pulled out becomes a
// new client at the start of the onboarding pipeline.
func (api *webhookApi) intake(ctx echo.Context) error {
	secret := ctx.Request().Header.Get(intakeSecretHeader)
	if core.Conf.IntakeWebhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(core.Conf.IntakeWebhookSecret)) != 1 {
		return errUnauthorized
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(ctx.Request().Body).Decode(&payload); err != nil {
		return errors.Wrap(err, "decoding intake payload")
	}

	data := extractIntake(payload)
	if data.FirstName == "" {
		api.logger.Warn("intake submission with no recognizable first name",
			map[string]interface{}{"keys": payloadKeys(payload)})
		return core.NewValidationError(nil,
			core.FieldError{Field: "firstName", Error: "could not find a first name in the submission"})
	}

	cl, err := api.clients.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating client from intake")
	}

	api.notifyAdmin(cl)
	return ctx.JSON(http.StatusOK, IntakeResponse{
		Success:  true,
		Message:  "Form submission processed successfully",
		ClientID: cl.ID,
	})
}

func (api *webhookApi) notifyAdmin(cl client.Client) {
	body := fmt.Sprintf(
		"A new sign-up form submission arrived.\n\nName: %s\nEmail: %s\nPhone: %s\nReferred by: %s\n",
		cl.FullName(), cl.Email, cl.Phone, cl.ReferralSource,
	)
	api.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{core.Conf.AdminEmail},
		Subject: "New client sign-up: " + cl.FullName(),
		BodyStr: body,
	})
}

type IntakeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ClientID string `json:"clientId"`
}

// extractIntake digs the contact fields out of any of the known payload
// shapes: a nested contact object, flat "field:*" keys, or a submissions
// array of label/value pairs.
func extractIntake(payload map[string]interface{}) client.NewClient {
	data := payload
	if nested, ok := payload["data"].(map[string]interface{}); ok {
		data = nested
	}

	var nc client.NewClient

	if contact, ok := data["contact"].(map[string]interface{}); ok {
		if name, ok := contact["name"].(map[string]interface{}); ok {
			nc.FirstName = str(name["first"])
			nc.LastName = str(name["last"])
		}
		nc.Email = str(contact["email"])
		nc.Phone = str(contact["phone"])
	}

	pick := func(cur *string, keys ...string) {
		if *cur != "" {
			return
		}
		for _, key := range keys {
			if val := str(data[key]); val != "" {
				*cur = val
				return
			}
		}
	}
	pick(&nc.FirstName, "field:first_name_13c3", "field:firstName_1", "firstName")
	pick(&nc.LastName, "field:last_name_7aa5", "field:lastName_1", "lastName")
	pick(&nc.Email, "field:email_65e2", "field:email_1", "email")
	pick(&nc.Phone, "field:phone_bd01", "field:phone_1", "phone")
	pick(&nc.ReferralSource, "field:who_asked_you_to_take_this_class", "referralSource")
	pick(&nc.Notes, "field:what_class_are_you_taking", "notes")

	if submissions, ok := data["submissions"].([]interface{}); ok {
		for _, item := range submissions {
			sub, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			label, value := str(sub["label"]), str(sub["value"])
			switch {
			case label == "First name" && nc.FirstName == "":
				nc.FirstName = value
			case label == "Last name" && nc.LastName == "":
				nc.LastName = value
			case label == "Email" && nc.Email == "":
				nc.Email = value
			case label == "Phone" && nc.Phone == "":
				nc.Phone = value
			case (label == "Who asked you to take this class?" || strings.Contains(label, "referral")) && nc.ReferralSource == "":
				nc.ReferralSource = value
			case label == "What class are you taking?" && nc.Notes == "":
				nc.Notes = value
			}
		}
	}

	return nc
}

func payloadKeys(payload map[string]interface{}) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	return keys
}

func str(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
