package missionrule

import (
	"context"
	"reflect"

	"github.com/connectus-app/backend/internal/repository"
)

// eventCountCheck passes when the user has accumulated at least Min events
// of the given type for the mission, the triggering event included.
type eventCountCheck struct {
	EventType string `mapstructure:"event_type"`
	Min       int64  `mapstructure:"min"`

	missionEventRepo repository.MissionEventRepository
}

func (c *eventCountCheck) reason() string {
	return ReasonEventCountOK
}

func (c *eventCountCheck) ok(ctx context.Context, event Event) (bool, error) {
	count, err := c.missionEventRepo.Count(ctx, event.UserID, event.MissionSlug, c.EventType)
	if err != nil {
		return false, err
	}

	return count >= c.Min, nil
}

// qrScannedCheck passes when the triggering event itself is a qr scan.
type qrScannedCheck struct {
	Required bool `mapstructure:"required"`
}

func (c *qrScannedCheck) reason() string {
	return ReasonQROK
}

func (c *qrScannedCheck) ok(ctx context.Context, event Event) (bool, error) {
	if !c.Required {
		return false, nil
	}

	return event.EventType == "qr_scanned", nil
}

// geoCheck trusts a client-side geofence result for now. The radius and
// coordinates are kept in the config for when the server-side distance
// check lands.
type geoCheck struct {
	RadiusM float64 `mapstructure:"radius_m"`
	Lat     float64 `mapstructure:"lat"`
	Lng     float64 `mapstructure:"lng"`
}

func (c *geoCheck) reason() string {
	return ReasonGeoOK
}

func (c *geoCheck) ok(ctx context.Context, event Event) (bool, error) {
	geoOK, ok := event.Payload["geo_ok"].(bool)
	return ok && geoOK, nil
}

// customKeyCheck passes when the payload carries Key with exactly the
// expected value.
type customKeyCheck struct {
	Key    string `mapstructure:"key"`
	Equals any    `mapstructure:"equals"`
}

func (c *customKeyCheck) reason() string {
	return ReasonCustomOK
}

func (c *customKeyCheck) ok(ctx context.Context, event Event) (bool, error) {
	value, ok := event.Payload[c.Key]
	if !ok {
		return false, nil
	}

	// Both sides come from decoded json, so maps and slices are possible.
	return reflect.DeepEqual(value, c.Equals), nil
}
