package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testObject struct {
	MissionID string `mapstructure:"mission_id"`
}

func Test_jwtEngine_GenerateAndVerify(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(time.Hour, testObject{MissionID: "mission-1"})
	require.NoError(t, err)

	var got testObject
	require.NoError(t, engine.Verify(token, &got))
	require.Equal(t, "mission-1", got.MissionID)
}

func Test_jwtEngine_Expired(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(-time.Minute, testObject{MissionID: "mission-1"})
	require.NoError(t, err)

	var got testObject
	require.Error(t, engine.Verify(token, &got))
}

func Test_jwtEngine_Tampered(t *testing.T) {
	engine := NewTokenEngine("secret")
	another := NewTokenEngine("another-secret")

	token, err := another.Generate(time.Hour, testObject{MissionID: "mission-1"})
	require.NoError(t, err)

	var got testObject
	require.Error(t, engine.Verify(token, &got))
	require.Error(t, engine.Verify("not-a-token", &got))
}
