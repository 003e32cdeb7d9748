package main

import (
	"testing"

	"raycast-car/internal/commands"
	"raycast-car/internal/config"
	"raycast-car/internal/controls"
	"raycast-car/internal/debug"
	"raycast-car/internal/logger"
	"raycast-car/internal/prefs"
	"raycast-car/internal/scene"
	"raycast-car/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *session {
	t.Helper()
	log, err := logger.New("", false)
	require.NoError(t, err)
	p := config.Default()
	s, err := sim.New(p, log.Logger)
	require.NoError(t, err)
	sess := &session{log: log, profile: p, sim: s, scene: scene.New(), hud: debug.New(), view: prefs.Default()}
	sess.applyView()
	return sess
}

func TestConsoleDrivesSession(t *testing.T) {
	sess := newSession(t)
	console := commands.New(sess)

	_, err := console.Execute("gravity -3")
	require.NoError(t, err)
	assert.Equal(t, -3.0, sess.sim.World().Gravity.Y())

	_, err = console.Execute("grid off")
	require.NoError(t, err)
	assert.False(t, sess.scene.GridVisible)
	assert.False(t, sess.view.GridVisible)

	_, err = console.Execute("camera free")
	require.NoError(t, err)
	assert.True(t, sess.scene.FreeCamera)
	assert.True(t, sess.view.FreeCamera)

	_, err = console.Execute("fps")
	require.NoError(t, err)
	assert.True(t, sess.hud.ShowFPS)

	_, err = console.Execute("pause")
	require.NoError(t, err)
	assert.True(t, sess.paused)
}

func TestResetRebuildsSimKeepingGravity(t *testing.T) {
	sess := newSession(t)
	sess.SetGravity(-5)
	for i := 0; i < 30; i++ {
		sess.sim.Tick(controls.Input{Accelerate: true}, 1.0/60)
	}
	old := sess.sim
	require.Greater(t, old.Time(), 0.0)

	require.NoError(t, sess.Reset())
	assert.NotSame(t, old, sess.sim)
	assert.Equal(t, 0.0, sess.sim.Time())
	assert.Equal(t, -5.0, sess.sim.World().Gravity.Y())
}
