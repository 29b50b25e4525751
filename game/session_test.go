package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplySettingsInput_OverridesOnlyProvidedFields(t *testing.T) {
	s := Settings{MaxPlayers: 10, DrawTime: 80 * time.Second, MaxRounds: 3, Theme: "default"}
	drawTime := 120
	applySettingsInput(&s, SettingsInput{DrawTime: &drawTime})

	assert.Equal(t, 120*time.Second, s.DrawTime)
	assert.Equal(t, 10, s.MaxPlayers)
	assert.Equal(t, 3, s.MaxRounds)
}

func TestDefaultSettings_UsesRoomDefaults(t *testing.T) {
	d := RoomDefaults{MaxPlayers: 6, DrawTime: 60 * time.Second, MaxRounds: 4, Theme: "animals"}
	s := defaultSettings(d)

	assert.Equal(t, d.MaxPlayers, s.MaxPlayers)
	assert.Equal(t, d.DrawTime, s.DrawTime)
	assert.Equal(t, d.MaxRounds, s.MaxRounds)
	assert.Equal(t, d.Theme, s.Theme)
}

func TestResolveUserID_EmptyTokenIsGuestNotError(t *testing.T) {
	s := &Session{}
	assert.Equal(t, "", s.resolveUserID())
}

func TestRawPayload_DecodesArbitraryJSON(t *testing.T) {
	v := rawPayload([]byte(`{"x":1,"y":"z"}`))
	m, ok := v.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, float64(1), m["x"])
}
