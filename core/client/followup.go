package client

import (
	"encoding/json"
	"strings"
)

type (
	// Task is the next concrete action owed on a client's onboarding.
	Task string

	// Status is the coarse onboarding progress label, always derived
	// from the current Task.
	Status string
)

// Follow-up tasks. A 🤖-prefixed task is owned by automation (payment and
// documentation confirmations land via their own endpoints) and can never be
// checked off by staff. TaskNone is the terminal value: onboarding complete.
// TaskUnset marks a record whose follow-up was never initialized (fresh
// intake); it is distinct from TaskNone.
const (
	TaskUnset Task = ""

	TaskInitialContact Task = "Initial Contact"
	TaskFormSubmitted  Task = "Form Submitted"
	TaskCallClient     Task = "Call Client for Onboarding"
	TaskSendSignupSMS  Task = "Send Valent Sign-Up SMS"
	TaskConfirmSignup  Task = "Confirm Valent Signup"
	TaskSendPaymentSMS Task = "Send Payment Link SMS"
	TaskConfirmPayment Task = "🤖 Confirm Payment"
	TaskSendDocSignSMS Task = "Send DocSign Link SMS"
	TaskConfirmDocs    Task = "🤖 Confirm Documentation"
	TaskAssignToClass  Task = "Assign to Class"
	TaskAdminCall      Task = "Admin Call"

	// TaskNone is transported as the "None" sentinel where a bare string
	// is needed and marshals to JSON null.
	TaskNone Task = "None"
)

const (
	StatusInitiation    Status = "Initiation"
	StatusPaymentDue    Status = "Payment Pending"
	StatusDocsPending   Status = "Documentation Pending"
	StatusReadyForClass Status = "Ready for Class"
	StatusComplete      Status = "Complete"
)

const autoTaskPrefix = "🤖"

// AllTasks is the closed enumeration accepted by SetTask, terminal included.
var AllTasks = []Task{
	TaskInitialContact,
	TaskFormSubmitted,
	TaskCallClient,
	TaskSendSignupSMS,
	TaskConfirmSignup,
	TaskSendPaymentSMS,
	TaskConfirmPayment,
	TaskSendDocSignSMS,
	TaskConfirmDocs,
	TaskAssignToClass,
	TaskAdminCall,
	TaskNone,
}

// successors encodes the linear onboarding pipeline:
// contact → sign-up → payment → documentation → class assignment → admin
// review → done. The two automatic tasks appear only as a fallback for the
// unexpected manual-completion path; automation resolves them through
// ResolveAutomatic.
var successors = map[Task]Task{
	TaskUnset:          TaskCallClient,
	TaskInitialContact: TaskCallClient,
	TaskFormSubmitted:  TaskCallClient,
	TaskCallClient:     TaskSendSignupSMS,
	TaskSendSignupSMS:  TaskConfirmSignup,
	TaskConfirmSignup:  TaskSendPaymentSMS,
	TaskSendPaymentSMS: TaskConfirmPayment,
	TaskConfirmPayment: TaskSendDocSignSMS,
	TaskSendDocSignSMS: TaskConfirmDocs,
	TaskConfirmDocs:    TaskAssignToClass,
	TaskAssignToClass:  TaskAdminCall,
	TaskAdminCall:      TaskNone,
	TaskNone:           TaskNone,
}

var statuses = map[Task]Status{
	TaskUnset:          StatusInitiation,
	TaskInitialContact: StatusInitiation,
	TaskFormSubmitted:  StatusInitiation,
	TaskCallClient:     StatusInitiation,
	TaskSendSignupSMS:  StatusInitiation,
	TaskConfirmSignup:  StatusInitiation,
	TaskSendPaymentSMS: StatusPaymentDue,
	TaskConfirmPayment: StatusPaymentDue,
	TaskSendDocSignSMS: StatusDocsPending,
	TaskConfirmDocs:    StatusDocsPending,
	TaskAssignToClass:  StatusReadyForClass,
	TaskAdminCall:      StatusReadyForClass,
	TaskNone:           StatusComplete,
}

func (t Task) IsTerminal() bool  { return t == TaskNone }
func (t Task) IsUnset() bool     { return t == TaskUnset }
func (t Task) IsAutomatic() bool { return strings.HasPrefix(string(t), autoTaskPrefix) }

// Known reports whether t is a member of the closed task enumeration
// (terminal included, unset excluded).
func (t Task) Known() bool {
	for _, known := range AllTasks {
		if t == known {
			return true
		}
	}
	return false
}

// MarshalJSON transports the terminal and unset values as null, matching
// the nullable followUp column the dashboard expects.
func (t Task) MarshalJSON() ([]byte, error) {
	if t.IsTerminal() || t.IsUnset() {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *Task) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TaskNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Task(s)
	return nil
}

// Next is the total successor function over the follow-up pipeline.
// Completing an automatic task manually, or carrying an unrecognized value,
// still yields a safe next step so the workflow never stalls, but is
// reported as unexpected for the caller to log.
func Next(t Task) (next Task, unexpected bool) {
	if next, ok := successors[t]; ok {
		return next, t.IsAutomatic()
	}
	return TaskCallClient, true
}

// StatusOf derives the onboarding status for a follow-up task. Every value
// Next can produce has an entry; anything else buckets into Initiation.
func StatusOf(t Task) Status {
	if s, ok := statuses[t]; ok {
		return s
	}
	return StatusInitiation
}
