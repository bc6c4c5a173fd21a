package domain

import "context"

// NeedAPI is the slice of the volunteer API the uploader depends on
type NeedAPI interface {
	// CreateShifts posts one group's envelope to its need
	CreateShifts(ctx context.Context, needID string, envelope any) error

	// NeedTitle looks up a need's display title for reporting
	NeedTitle(ctx context.Context, needID string) (string, error)

	// ShiftsURL returns the create endpoint for display purposes
	ShiftsURL(needID string) string
}
