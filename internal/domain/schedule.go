package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WeeklyTemplate is the recurring default operating-hours row for one day
// of the week. Exactly one row exists per weekday; day_of_week is keyed
// Monday=0 .. Sunday=6.
type WeeklyTemplate struct {
	bun.BaseModel `bun:"table:weekly_templates"`

	DayOfWeek           int    `bun:"day_of_week,pk"`
	IsOpen              bool   `bun:"is_open,notnull"`
	OpenTime            string `bun:"open_time"`
	CloseTime           string `bun:"close_time"`
	SlotDurationMinutes int    `bun:"slot_duration_minutes,notnull"`
}

// DateOverride supersedes the weekly template for one date or an inclusive
// date range. Overrides are immutable: edits go through delete+recreate.
type DateOverride struct {
	bun.BaseModel `bun:"table:date_overrides"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	Date          string    `bun:"date,notnull"`
	EndDate       *string   `bun:"end_date"`
	IsClosed      bool      `bun:"is_closed,notnull"`
	OpenTime      *string   `bun:"open_time"`
	CloseTime     *string   `bun:"close_time"`
	Reason        *string   `bun:"reason"`
	IsRecurring   bool      `bun:"is_recurring,notnull"`
	ShowOnWebsite bool      `bun:"show_on_website,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (o *DateOverride) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if o.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			o.ID = id
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

// DaySchedule is the resolved open/closed state and operating hours for a
// single calendar date, after override precedence has been applied.
type DaySchedule struct {
	IsOpen              bool
	OpenTime            string
	CloseTime           string
	SlotDurationMinutes int
	OverrideReason      string
}

// TimeSlot is one bookable unit of a day. Booked and past slots are kept in
// slot lists with Available=false so a UI can render "taken" distinctly
// from nonexistent.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DateAvailability is one calendar day of a range view. IsOpen here means
// "at least one slot is still bookable", not merely that the business is
// nominally open: a fully booked day reports false.
type DateAvailability struct {
	Date   string     `json:"date"`
	IsOpen bool       `json:"is_open"`
	Slots  []TimeSlot `json:"slots"`
}
