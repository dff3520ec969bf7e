package supervisor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchFailsWithoutSpawningWhenBinaryMissing(t *testing.T) {
	sup := New(Options{
		BinaryPath: filepath.Join(t.TempDir(), "does-not-exist"),
		Port:       8080,
	})

	err := sup.Launch()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
	assert.Contains(t, err.Error(), "does-not-exist")

	// no process handle was ever created
	assert.Equal(t, NotStarted, sup.State())
	assert.False(t, sup.Alive())
}

func TestShutdownBeforeLaunchIsNoOp(t *testing.T) {
	sup := New(Options{BinaryPath: "whatever", Port: 8080})

	sup.Shutdown()
	sup.Shutdown()

	assert.Equal(t, NotStarted, sup.State())
}

func TestWaitReadyRequiresLaunch(t *testing.T) {
	sup := New(Options{BinaryPath: "whatever", Port: 8080})

	err := sup.WaitReady()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotStarted")
}

func TestOptionDefaults(t *testing.T) {
	sup := New(Options{BinaryPath: "whatever", Port: 9999})

	assert.Equal(t, DefaultStartupTimeout, sup.opts.StartupTimeout)
	assert.Equal(t, DefaultShutdownGrace, sup.opts.ShutdownGrace)
	assert.Equal(t, DefaultPollInterval, sup.opts.PollInterval)
	assert.Equal(t, "http://127.0.0.1:9999", sup.BaseURL())
}
