package api

import (
	"github.com/dmitrymomot/notifyd/pkg/email"
	"github.com/dmitrymomot/notifyd/pkg/notification"
)

// createRequest is the JSON body accepted by POST /create. Unknown fields
// are tolerated so clients can carry extra metadata without breaking.
type createRequest struct {
	UserID      string         `json:"user_id"`
	Kind        string         `json:"kind"`
	TargetID    string         `json:"target_id"`
	TargetEmail string         `json:"target_email"`
	Data        map[string]any `json:"data"`
}

// toEvent validates the request and converts it into a dispatchable event.
func (r createRequest) toEvent() (notification.Event, error) {
	verr := ValidationError{}

	if !validObjectID(r.UserID) {
		verr.Add("user_id", "must be a 24-character hex identifier")
	}
	if r.TargetID != "" && !validObjectID(r.TargetID) {
		verr.Add("target_id", "must be a 24-character hex identifier")
	}

	kind, err := notification.ParseKind(r.Kind)
	if err != nil {
		verr.Add("kind", "unknown notification kind")
	}

	if err == nil && notification.RoutesToEmail(kind) {
		if r.TargetEmail == "" {
			verr.Add("target_email", "required for this notification kind")
		} else if !email.ValidAddress(r.TargetEmail) {
			verr.Add("target_email", "must be a valid email address")
		}
	}

	if len(verr) > 0 {
		return notification.Event{}, verr
	}

	return notification.Event{
		UserID:      r.UserID,
		Kind:        kind,
		TargetID:    r.TargetID,
		TargetEmail: r.TargetEmail,
		Data:        r.Data,
	}, nil
}
