package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Input struct {
	DebtorID *snowflake.ID
	Type     Type
	Title    string
	Message  string
}

// Channel delivers a persisted notification outside the database.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, n *Notification) error
	ListUnread(ctx context.Context, db *gorm.DB, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	MarkAllRead(ctx context.Context, db *gorm.DB) (int64, error)
	ExistsInRange(ctx context.Context, db *gorm.DB, typ Type, from, to time.Time) (bool, error)
}

type Service interface {
	Notify(ctx context.Context, input Input) (Notification, error)
	ListUnread(ctx context.Context, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	// HostingReminder creates the monthly reminder on UTC day 6 when none
	// exists for the month. force skips both checks.
	HostingReminder(ctx context.Context, now time.Time, force bool) (bool, error)
}

const (
	MaxUnread          = 50
	HostingReminderDay = 6
)

var (
	ErrInvalidType    = errors.New("invalid_notification_type")
	ErrInvalidMessage = errors.New("invalid_notification_message")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("notification_not_found")
)
