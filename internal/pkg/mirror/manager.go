package mirror

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/RamilOcampo/GymDesk/internal/pkg/env"
)

const (
	CollectionMembers    = "members"
	CollectionPayments   = "payments"
	CollectionAttendance = "attendance"
)

var (
	globalQueue *Queue
	setupOnce   sync.Once
)

// Setup initializes the global mirror queue and its Firestore sink. When
// Firestore is not configured the mirror stays disabled and every Enqueue
// becomes a no-op.
func Setup(ctx context.Context) {
	setupOnce.Do(func() {
		sink, err := NewFirestoreSinkFromEnv(ctx)
		if err != nil {
			log.Errorf("[Mirror] Firestore sink unavailable, mirroring disabled: %v", err)
			return
		}
		if sink == nil {
			log.Info("[Mirror] Firestore not configured, mirroring disabled")
			return
		}

		workers := env.GetEnvInt("MIRROR_WORKERS", 2)
		if workers < 1 {
			workers = 1
		}

		globalQueue = NewQueue(workers, sink)
		globalQueue.Start()
	})
}

// Shutdown stops the global queue if it is running.
func Shutdown() {
	if globalQueue != nil {
		globalQueue.Stop()
	}
}

// Enabled reports whether mirroring is configured and running.
func Enabled() bool {
	return globalQueue != nil
}

// Enqueue schedules one document write. Fire and forget: failures are
// logged, never surfaced to the caller.
func Enqueue(jobType JobType, collection, docID string, document map[string]any) {
	if globalQueue == nil {
		return
	}
	payload := DocumentJobPayload{Collection: collection, DocID: docID, Document: document}
	if _, err := globalQueue.EnqueueJob(jobType, payload.ToMap()); err != nil {
		log.Errorf("[Mirror] Failed to enqueue %s for %s/%s: %v", jobType, collection, docID, err)
	}
}
