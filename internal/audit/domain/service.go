package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/nasiya/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry describes one audited mutation. Actor and client details are taken
// from the request context when not set.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	ActorType  string
	ActorID    string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	EntityType string
	EntityID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	// Record writes the entry through db, which is normally the caller's
	// open transaction. A nil db uses the service connection.
	Record(ctx context.Context, db *gorm.DB, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidAction    = errors.New("invalid_action")
)
