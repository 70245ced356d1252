package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/penwyp/confit/internal/config"
	"github.com/stretchr/testify/require"
)

func executeStatus(t *testing.T, remote *mockRemote, args ...string) (string, error) {
	t.Helper()
	remoteProvider = func(endpoint, token string) remoteInterface { return remote }

	rootCmd.SetArgs(append([]string{"status"}, args...))
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestStatus_ShowsEnvironments(t *testing.T) {
	resetFlags()
	t.Setenv(TokenEnvVar, "")

	out, err := executeStatus(t, &mockRemote{raw: `{}`}, "--config", missingConfig(t))
	require.NoError(t, err)

	// 内置默认配置包含 production 与 staging，production 为默认环境
	require.Contains(t, out, "production")
	require.Contains(t, out, "staging")
	require.Contains(t, out, "https://config.penwyp.dev")
	require.Contains(t, out, "✓")
	require.Contains(t, out, "not set")
}

func TestStatus_TokenSet(t *testing.T) {
	resetFlags()
	t.Setenv(TokenEnvVar, "secret-token")

	out, err := executeStatus(t, &mockRemote{raw: `{}`}, "--config", missingConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "Token: set")
	require.NotContains(t, out, "secret-token")
}

func TestStatus_EndpointOverrideShown(t *testing.T) {
	resetFlags()
	t.Setenv(config.EndpointEnvVar, "http://127.0.0.1:8080")

	out, err := executeStatus(t, &mockRemote{raw: `{}`}, "--config", missingConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "Endpoint override: http://127.0.0.1:8080")
}

func TestStatus_Check_AllEnvironments(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.0.0": {}, "2.0.0": {}}}`}

	out, err := executeStatus(t, remote, "--check", "--config", missingConfig(t))
	require.NoError(t, err)
	require.True(t, remote.fetchCalled)

	// 默认配置的两个环境都被探测
	require.Contains(t, out, "production: ok (2 versions)")
	require.Contains(t, out, "staging: ok (2 versions)")
}

func TestStatus_Check_SingleEnvironment(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.0.0": {}}}`}

	out, err := executeStatus(t, remote, "--check", "--env", "staging", "--config", missingConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "staging: ok (1 versions)")
	require.NotContains(t, out, "production: ok")
}

func TestStatus_Check_Unreachable(t *testing.T) {
	resetFlags()
	remote := &mockRemote{fetchErr: context.DeadlineExceeded}

	out, err := executeStatus(t, remote, "--check", "--config", missingConfig(t))
	require.Error(t, err)
	require.Contains(t, out, "production: failed")
	require.Contains(t, out, "staging: failed")
	require.Contains(t, out, "2 of 2 environments unreachable")
}

func TestStatus_UnknownEnvironment(t *testing.T) {
	resetFlags()

	out, err := executeStatus(t, &mockRemote{raw: `{}`}, "--check", "--env", "qa", "--config", missingConfig(t))
	require.Error(t, err)
	require.Contains(t, out, "production")
	require.Contains(t, out, "staging")
}
