package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/entreprise-registry/internal/entreprise"
	jobmetrics "github.com/odyssey-erp/entreprise-registry/internal/jobs"
	"github.com/odyssey-erp/entreprise-registry/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskEntrepriseRegistered is emitted after a successful registration.
	TaskEntrepriseRegistered = "entreprise:registered"

	registeredMaxRetry = 5
)

// EntrepriseRegisteredPayload is the task body for TaskEntrepriseRegistered.
type EntrepriseRegisteredPayload struct {
	EventID      string    `json:"event_id"`
	EntrepriseID int64     `json:"entreprise_id"`
	Name         string    `json:"name"`
	RequestID    string    `json:"request_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewEntrepriseRegisteredTask constructs an Asynq task keyed by the event id, so a
// re-published event is rejected by the queue instead of processed twice.
func NewEntrepriseRegisteredTask(evt entreprise.RegisteredEvent) (*asynq.Task, error) {
	data, err := json.Marshal(EntrepriseRegisteredPayload{
		EventID:      evt.EventID.String(),
		EntrepriseID: evt.EntrepriseID,
		Name:         evt.Name,
		RequestID:    evt.RequestID,
		RegisteredAt: evt.RegisteredAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEntrepriseRegistered, data,
		asynq.TaskID(evt.EventID.String()),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(registeredMaxRetry),
	), nil
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// RegisteredHandler writes an audit entry for every registered entreprise.
type RegisteredHandler struct {
	audit   AuditRecorder
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewRegisteredHandler builds the handler. metrics may be nil.
func NewRegisteredHandler(audit AuditRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *RegisteredHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisteredHandler{audit: audit, logger: logger, metrics: metrics}
}

// ProcessTask implements asynq.Handler.
func (h *RegisteredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(TaskEntrepriseRegistered)

	var payload EntrepriseRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(fmt.Errorf("decode %s payload: %v: %w", TaskEntrepriseRegistered, err, asynq.SkipRetry))
	}
	if payload.EntrepriseID <= 0 {
		return tracker.End(fmt.Errorf("%s payload without entreprise id: %w", TaskEntrepriseRegistered, asynq.SkipRetry))
	}

	err := h.audit.Record(ctx, shared.AuditLog{
		Action:   "entreprise.registered",
		Entity:   "entreprise",
		EntityID: strconv.FormatInt(payload.EntrepriseID, 10),
		Meta: map[string]any{
			"event_id":   payload.EventID,
			"name":       payload.Name,
			"request_id": payload.RequestID,
		},
		At: payload.RegisteredAt,
	})
	if err != nil {
		h.logger.Warn("record registration audit", slog.Int64("entreprise_id", payload.EntrepriseID), slog.Any("error", err))
		return tracker.End(fmt.Errorf("record audit: %w", err))
	}
	return tracker.End(nil)
}
