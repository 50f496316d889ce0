package environment

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/config"
	"valet/vlog"
)

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("nonexistent")
	require.Error(t, err)
	var unknown *ErrUnknownBackend
	assert.ErrorAs(t, err, &unknown)
}

func TestHostEnvironmentRunsCommand(t *testing.T) {
	env, err := New("host")
	require.NoError(t, err)
	require.NoError(t, env.Setup(0, &config.Config{}, vlog.NoOpLogger{}))
	defer env.Cleanup()

	result, err := env.Execute(context.Background(), &ExecCommand{
		Command: "true",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
}

func TestHostEnvironmentReportsNonZeroExit(t *testing.T) {
	env, err := New("host")
	require.NoError(t, err)
	require.NoError(t, env.Setup(0, &config.Config{}, vlog.NoOpLogger{}))
	defer env.Cleanup()

	result, err := env.Execute(context.Background(), &ExecCommand{
		Command: "false",
	})
	require.NoError(t, err) // command ran; non-zero exit is not an Execute error
	assert.Equal(t, 1, result.ExitCode)
}

func TestHostEnvironmentMissingBinaryIsExecuteError(t *testing.T) {
	env, err := New("host")
	require.NoError(t, err)
	require.NoError(t, env.Setup(0, &config.Config{}, vlog.NoOpLogger{}))
	defer env.Cleanup()

	_, err = env.Execute(context.Background(), &ExecCommand{
		Command: "/nonexistent/binary/valet-test",
	})
	assert.Error(t, err)
}

func TestHostEnvironmentCleanupRemovesScratchDir(t *testing.T) {
	env, err := New("host")
	require.NoError(t, err)
	require.NoError(t, env.Setup(0, &config.Config{}, vlog.NoOpLogger{}))

	base := env.GetBasePath()
	require.NotEmpty(t, base)
	_, statErr := os.Stat(base)
	require.NoError(t, statErr)

	require.NoError(t, env.Cleanup())
	_, statErr = os.Stat(base)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMockEnvironmentRecordsCalls(t *testing.T) {
	env, err := New("mock")
	require.NoError(t, err)

	require.NoError(t, env.Setup(3, &config.Config{}, vlog.NoOpLogger{}))
	_, err = env.Execute(context.Background(), &ExecCommand{Command: "clang++"})
	require.NoError(t, err)
	require.NoError(t, env.Cleanup())

	mock := env.(*MockEnvironment)
	assert.True(t, mock.WasSetupCalled())
	assert.Equal(t, 3, mock.SetupWorkerID)
	assert.Equal(t, 1, mock.GetExecuteCallCount())
	assert.True(t, mock.WasCleanupCalled())
}
