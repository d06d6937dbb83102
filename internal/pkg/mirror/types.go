// Package mirror replicates relational rows into the Firestore document
// store. Replication is fire and forget: handlers enqueue a job on Redis and
// move on, a small worker pool writes the documents, and a failed mirror
// never fails the originating request.
package mirror

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobType defines the type of mirror job
type JobType string

const (
	JobTypeMirrorMember     JobType = "mirror_member"
	JobTypeMirrorPayment    JobType = "mirror_payment"
	JobTypeMirrorAttendance JobType = "mirror_attendance"
)

// JobStatus defines the status of a mirror job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents one pending document write
type Job struct {
	ID          string         `json:"id"`
	Type        JobType        `json:"type"`
	Status      JobStatus      `json:"status"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	ErrorMsg    string         `json:"error_msg,omitempty"`
	RetryCount  int            `json:"retry_count"`
	MaxRetries  int            `json:"max_retries"`
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// MarkAsProcessing marks the job as being processed
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.ErrorMsg = ""
}

// MarkAsFailed marks the job as failed and bumps the retry counter
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = errorMsg
	j.RetryCount++
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying marks the job as queued for another attempt
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

// DocumentJobPayload carries one document destined for Firestore. Collection
// and DocID address the target; Document is the full body to set, so mirror
// writes are idempotent upserts.
type DocumentJobPayload struct {
	Collection string         `json:"collection"`
	DocID      string         `json:"doc_id"`
	Document   map[string]any `json:"document"`
}

// ToMap converts the payload to a map for storage
func (p DocumentJobPayload) ToMap() map[string]any {
	return map[string]any{
		"collection": p.Collection,
		"doc_id":     p.DocID,
		"document":   p.Document,
	}
}

// DocumentJobPayloadFromMap creates a payload from a map
func DocumentJobPayloadFromMap(data map[string]any) (*DocumentJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload DocumentJobPayload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, err
	}
	if payload.Collection == "" || payload.DocID == "" {
		return nil, fmt.Errorf("mirror payload missing collection or doc_id")
	}
	return &payload, nil
}
