package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_coversWholeEnumeration(t *testing.T) {
	// every task (and the unset value) must map to a successor with a
	// defined status, so the pipeline can never dead-end
	for _, task := range append([]Task{TaskUnset}, AllTasks...) {
		next, _ := Next(task)
		_, ok := statuses[next]
		assert.True(t, ok, "StatusOf(Next(%q)) has no table entry", task)
	}
}

func TestNext_startOfPipeline(t *testing.T) {
	for _, task := range []Task{TaskUnset, TaskInitialContact, TaskFormSubmitted} {
		next, unexpected := Next(task)
		assert.Equal(t, TaskCallClient, next)
		assert.False(t, unexpected)
	}
}

func TestNext_terminalIsIdempotent(t *testing.T) {
	next, unexpected := Next(TaskNone)
	assert.Equal(t, TaskNone, next)
	assert.False(t, unexpected)
}

func TestNext_manualPipelineOrder(t *testing.T) {
	steps := []struct {
		current Task
		want    Task
	}{
		{TaskCallClient, TaskSendSignupSMS},
		{TaskSendSignupSMS, TaskConfirmSignup},
		{TaskConfirmSignup, TaskSendPaymentSMS},
		{TaskSendPaymentSMS, TaskConfirmPayment},
		{TaskSendDocSignSMS, TaskConfirmDocs},
		{TaskAssignToClass, TaskAdminCall},
		{TaskAdminCall, TaskNone},
	}
	for _, step := range steps {
		next, unexpected := Next(step.current)
		assert.Equal(t, step.want, next, "Next(%q)", step.current)
		assert.False(t, unexpected, "Next(%q)", step.current)
	}
}

func TestNext_automaticTasksAreUnexpected(t *testing.T) {
	next, unexpected := Next(TaskConfirmPayment)
	assert.Equal(t, TaskSendDocSignSMS, next)
	assert.True(t, unexpected)

	next, unexpected = Next(TaskConfirmDocs)
	assert.Equal(t, TaskAssignToClass, next)
	assert.True(t, unexpected)
}

func TestNext_unrecognizedFallsBack(t *testing.T) {
	// retired values may survive in old rows; prefixed or not, anything
	// outside the table restarts at the first manual step
	for _, task := range []Task{Task("Fax Paperwork"), Task("🤖 Verify ID")} {
		next, unexpected := Next(task)
		assert.Equal(t, TaskCallClient, next, "Next(%q)", task)
		assert.True(t, unexpected, "Next(%q)", task)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		task Task
		want Status
	}{
		{TaskUnset, StatusInitiation},
		{TaskInitialContact, StatusInitiation},
		{TaskFormSubmitted, StatusInitiation},
		{TaskCallClient, StatusInitiation},
		{TaskSendSignupSMS, StatusInitiation},
		{TaskConfirmSignup, StatusInitiation},
		{TaskSendPaymentSMS, StatusPaymentDue},
		{TaskConfirmPayment, StatusPaymentDue},
		{TaskSendDocSignSMS, StatusDocsPending},
		{TaskConfirmDocs, StatusDocsPending},
		{TaskAssignToClass, StatusReadyForClass},
		{TaskAdminCall, StatusReadyForClass},
		{TaskNone, StatusComplete},
		{Task("Fax Paperwork"), StatusInitiation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.task), "StatusOf(%q)", tt.task)
	}
}

func TestTask_helpers(t *testing.T) {
	assert.True(t, TaskConfirmPayment.IsAutomatic())
	assert.True(t, TaskConfirmDocs.IsAutomatic())
	assert.False(t, TaskAdminCall.IsAutomatic())
	assert.True(t, TaskNone.IsTerminal())
	assert.True(t, TaskUnset.IsUnset())
	assert.True(t, TaskNone.Known())
	assert.False(t, TaskUnset.Known())
	assert.False(t, Task("Fax Paperwork").Known())
}

func TestTask_jsonRoundTrip(t *testing.T) {
	// terminal and unset transport as null
	for _, task := range []Task{TaskNone, TaskUnset} {
		data, err := json.Marshal(task)
		assert.NoError(t, err)
		assert.Equal(t, "null", string(data))
	}

	data, err := json.Marshal(TaskConfirmPayment)
	assert.NoError(t, err)
	assert.Equal(t, `"🤖 Confirm Payment"`, string(data))

	var task Task
	assert.NoError(t, json.Unmarshal([]byte("null"), &task))
	assert.Equal(t, TaskNone, task)

	// the "None" sentinel also decodes to the terminal value
	assert.NoError(t, json.Unmarshal([]byte(`"None"`), &task))
	assert.Equal(t, TaskNone, task)

	assert.NoError(t, json.Unmarshal([]byte(`"Admin Call"`), &task))
	assert.Equal(t, TaskAdminCall, task)
}
