package missionrule

import "context"

// Reasons a verdict can carry. The reason names are part of the evidence
// hash, so they never change once written.
const (
	ReasonEventCountOK = "event_count_ok"
	ReasonQROK         = "qr_ok"
	ReasonGeoOK        = "geo_ok"
	ReasonCustomOK     = "custom_ok"
	ReasonNoMatch      = "no_match"
	ReasonNoRule       = "no_rule"
)

// Event is the triggering event as the checks see it.
type Event struct {
	UserID      string
	MissionSlug string
	EventType   string
	Payload     map[string]any
}

type Verdict struct {
	Approved bool   `structs:"approved"`
	Score    int    `structs:"score"`
	Reason   string `structs:"reason"`
}

// check is a single condition of a rule. Ok reports whether the condition
// holds for the given event; reason is recorded only when it does.
type check interface {
	reason() string
	ok(ctx context.Context, event Event) (bool, error)
}
