package mirror

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobTypes(t *testing.T) {
	assert.Equal(t, "mirror_member", string(JobTypeMirrorMember))
	assert.Equal(t, "mirror_payment", string(JobTypeMirrorPayment))
	assert.Equal(t, "mirror_attendance", string(JobTypeMirrorAttendance))
}

func TestJobStatus(t *testing.T) {
	assert.Equal(t, "pending", string(JobStatusPending))
	assert.Equal(t, "processing", string(JobStatusProcessing))
	assert.Equal(t, "completed", string(JobStatusCompleted))
	assert.Equal(t, "failed", string(JobStatusFailed))
	assert.Equal(t, "retrying", string(JobStatusRetrying))
}

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{
		Status:     JobStatusFailed,
		RetryCount: 1,
		MaxRetries: 3,
	}

	assert.True(t, job.IsRetryable())

	job.RetryCount = 3
	assert.False(t, job.IsRetryable())

	beforeTime := time.Now()

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)
	assert.True(t, job.UpdatedAt.After(beforeTime))

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)

	job.MarkAsFailed("firestore write failed")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "firestore write failed", job.ErrorMsg)
	assert.Equal(t, 4, job.RetryCount)

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)
}

func TestJob_JSONRoundTrip(t *testing.T) {
	job := &Job{
		ID:     "job-1",
		Type:   JobTypeMirrorMember,
		Status: JobStatusPending,
		Payload: map[string]interface{}{
			"collection": CollectionMembers,
			"doc_id":     "m-001",
		},
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded Job
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, job.ID, decoded.ID)
	assert.Equal(t, job.Type, decoded.Type)
	assert.Equal(t, "m-001", decoded.Payload["doc_id"])
}

func TestDocumentJobPayload_RoundTrip(t *testing.T) {
	payload := DocumentJobPayload{
		Collection: CollectionPayments,
		DocID:      "receipt-42",
		Document: map[string]any{
			"memberCode":  "rey-001",
			"particulars": "Gym Membership",
			"amountCents": float64(95000),
		},
	}

	decoded, err := DocumentJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload.Collection, decoded.Collection)
	assert.Equal(t, payload.DocID, decoded.DocID)
	assert.Equal(t, "rey-001", decoded.Document["memberCode"])
	assert.Equal(t, float64(95000), decoded.Document["amountCents"])
}

func TestDocumentJobPayload_Invalid(t *testing.T) {
	_, err := DocumentJobPayloadFromMap(map[string]interface{}{"collection": ""})
	assert.Error(t, err)
}
