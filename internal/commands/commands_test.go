package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	resets   int
	resetErr error
	gravity  float64
	grid     bool
	fps      bool
	free     bool
	paused   bool
}

func (f *fakeTarget) Reset() error { f.resets++; return f.resetErr }
func (f *fakeTarget) SetGravity(y float64) { f.gravity = y }
func (f *fakeTarget) SetGridVisible(v bool) { f.grid = v }
func (f *fakeTarget) SetShowFPS(v bool) { f.fps = v }
func (f *fakeTarget) SetFreeCamera(v bool) { f.free = v }
func (f *fakeTarget) SetPaused(v bool) { f.paused = v }

func TestExecuteCommands(t *testing.T) {
	f := &fakeTarget{grid: true}
	c := New(f)

	out, err := c.Execute("gravity -1.62")
	require.NoError(t, err)
	assert.Equal(t, -1.62, f.gravity)
	assert.Equal(t, "gravity -1.62", out)

	_, err = c.Execute("grid off")
	require.NoError(t, err)
	assert.False(t, f.grid)
	_, err = c.Execute("grid")
	require.NoError(t, err)
	assert.True(t, f.grid)

	_, err = c.Execute("fps on")
	require.NoError(t, err)
	assert.True(t, f.fps)

	_, err = c.Execute("  camera   free ")
	require.NoError(t, err)
	assert.True(t, f.free)

	_, err = c.Execute("pause")
	require.NoError(t, err)
	assert.True(t, f.paused)

	out, err = c.Execute("reset")
	require.NoError(t, err)
	assert.Equal(t, 1, f.resets)
	assert.Equal(t, "car reset", out)
}

func TestExecuteRejectsBadInput(t *testing.T) {
	f := &fakeTarget{}
	c := New(f)

	for _, line := range []string{"", "   ", "fly", "gravity", "gravity down", "grid maybe", "camera orbit"} {
		_, err := c.Execute(line)
		assert.Error(t, err, "line %q", line)
	}
	assert.Zero(t, f.gravity)
	assert.False(t, f.free)

	f.resetErr = errors.New("boom")
	_, err := c.Execute("reset")
	assert.ErrorIs(t, err, f.resetErr)
}

func TestHelpListsCommands(t *testing.T) {
	out, err := New(&fakeTarget{}).Execute("help")
	require.NoError(t, err)
	for _, name := range []string{"reset", "gravity", "grid", "fps", "pause", "camera"} {
		assert.Contains(t, out, name)
	}
}
