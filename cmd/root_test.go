package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/penwyp/confit/document"
	confiterrors "github.com/penwyp/confit/internal/errors"
	"github.com/penwyp/confit/ui"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// ---------------- Mock 实现 ----------------

type mockRemote struct {
	raw         string
	fetchErr    error
	persistErr  error
	fetchCalled bool
	persisted   *document.Document
}

func (m *mockRemote) Fetch(_ context.Context) (*document.Document, error) {
	m.fetchCalled = true
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return document.Parse([]byte(m.raw))
}

func (m *mockRemote) Persist(_ context.Context, doc *document.Document) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	m.persisted = doc
	return nil
}

func (m *mockRemote) ConfigURL() string { return "https://config.example.com/api/v1/config" }

type stubGate struct {
	selected string
	confirm  bool
	text     string
}

func (g stubGate) SelectFromList(_ string, _ []string, defaultItem string) (string, error) {
	if g.selected != "" {
		return g.selected, nil
	}
	return defaultItem, nil
}

func (g stubGate) Confirm(string, bool) (bool, error) { return g.confirm, nil }

func (g stubGate) FreeText(string, string) (string, error) { return g.text, nil }

// ------------------------------------------------

// resetFlags 将根命令与子命令的标志恢复默认值并清除 Changed 状态，
// 避免用例间串扰（buildRequest 依赖 Changed 判断标志是否出现过）。
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.Flags())
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// missingConfig 返回一个不存在的配置路径，使命令回退到内置默认配置。
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func execute(t *testing.T, remote *mockRemote, gate ui.Gate, args ...string) (string, error) {
	t.Helper()
	remoteProvider = func(endpoint, token string) remoteInterface { return remote }
	gateProvider = func() ui.Gate { return gate }

	rootCmd.SetArgs(args)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRoot_YesFlag_Commits(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.2.3": {"isDeprecated": false}, "1.1.0": {"isDeprecated": true}}}`}

	out, err := execute(t, remote, ui.AutoGate{},
		"-y", "-s", "1.2.3", "--deprecated", "--config", missingConfig(t))
	require.NoError(t, err)

	require.NotNil(t, remote.persisted)
	raw := string(remote.persisted.Raw())
	require.Contains(t, raw, `"1.2.3": {"isDeprecated": true}`)
	// 未触及的实体保持原始字节
	require.Contains(t, raw, `"1.1.0": {"isDeprecated": true}`)

	require.Contains(t, out, "Committed 1 changed to version 1.2.3")
	require.Contains(t, out, "Config URL: https://config.example.com/api/v1/config")
}

func TestRoot_DryRun(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.2.3": {"isDeprecated": false}}}`}

	out, err := execute(t, remote, ui.AutoGate{},
		"--dry-run", "-s", "1.2.3", "--deprecated", "--config", missingConfig(t))
	require.NoError(t, err)

	require.Nil(t, remote.persisted)
	require.Contains(t, out, "~ isDeprecated")
	require.Contains(t, out, "Dry run, nothing committed.")
}

func TestRoot_NoChanges_NoCommit(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.2.3": {"isDeprecated": true}}}`}

	out, err := execute(t, remote, ui.AutoGate{},
		"-y", "-s", "1.2.3", "--deprecated", "--config", missingConfig(t))
	require.NoError(t, err)

	require.Nil(t, remote.persisted)
	require.Contains(t, out, "No changes for version 1.2.3.")
}

func TestRoot_CreateNewVersion(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.0.0": {"isDeprecated": false}}}`}

	out, err := execute(t, remote, ui.AutoGate{},
		"-y", "-s", "3.0.0", "-r", "https://example.com/rn/3.0.0", "--config", missingConfig(t))
	require.NoError(t, err)

	require.NotNil(t, remote.persisted)
	require.Contains(t, string(remote.persisted.Raw()), `"3.0.0":{"releaseNoteUrl":"https://example.com/rn/3.0.0"}`)
	require.Contains(t, out, "Committed 1 added to version 3.0.0")
}

func TestRoot_MalformedFlags_FailBeforeFetch(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{}`}

	out, err := execute(t, remote, ui.AutoGate{},
		"-y", "--value", "42", "--config", missingConfig(t))
	require.Error(t, err)
	require.True(t, confiterrors.Is(err, confiterrors.ErrMalformedRequest))

	require.False(t, remote.fetchCalled)
	require.Contains(t, out, "Pass --key")
}

func TestRoot_InteractiveSelection_UsesDefault(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.9.0": {"isDeprecated": false}, "2.0.0": {"isDeprecated": false}}}`}

	// 未指定 --sdk-version 时走选择器；stub 网关返回默认项（最新版本）。
	out, err := execute(t, remote, stubGate{confirm: true},
		"--deprecated", "--config", missingConfig(t))
	require.NoError(t, err)

	require.NotNil(t, remote.persisted)
	require.Contains(t, string(remote.persisted.Raw()), `"2.0.0": {"isDeprecated": true}`)
	require.Contains(t, out, "Committed 1 changed to version 2.0.0")
}

func TestRoot_DeclinedConfirmation_NoCommit(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.2.3": {"isDeprecated": false}}}`}

	out, err := execute(t, remote, stubGate{confirm: false},
		"-s", "1.2.3", "--deprecated", "--config", missingConfig(t))
	require.NoError(t, err)

	require.Nil(t, remote.persisted)
	require.Contains(t, out, "Canceled.")
}

func TestRoot_FetchError_Formatted(t *testing.T) {
	resetFlags()
	remote := &mockRemote{fetchErr: confiterrors.NewRetryable(confiterrors.ErrTypeNetwork, "config service returned status 503")}

	out, err := execute(t, remote, ui.AutoGate{},
		"-y", "-s", "1.2.3", "--deprecated", "--config", missingConfig(t))
	require.Error(t, err)
	require.Contains(t, out, "config service returned status 503")
	require.Contains(t, out, "re-run the command")
}

func TestRoot_VersionFlag(t *testing.T) {
	resetFlags()
	remote := &mockRemote{raw: `{}`}

	out, err := execute(t, remote, ui.AutoGate{}, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "confit version dev")
	require.False(t, remote.fetchCalled)
}

func TestExecute(t *testing.T) {
	// Save original values
	originalRemoteProvider := remoteProvider
	originalGateProvider := gateProvider

	// Restore after test
	defer func() {
		remoteProvider = originalRemoteProvider
		gateProvider = originalGateProvider
	}()

	resetFlags()
	remote := &mockRemote{raw: `{"sdkVersions": {"1.2.3": {"isDeprecated": false}}}`}
	remoteProvider = func(endpoint, token string) remoteInterface { return remote }
	gateProvider = func() ui.Gate { return ui.AutoGate{} }

	rootCmd.SetArgs([]string{"--dry-run", "-s", "1.2.3", "--deprecated", "--config", missingConfig(t)})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	err := Execute()
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Dry run, nothing committed.")
}

func TestBuildRequest_FlagPresence(t *testing.T) {
	resetFlags()

	// 未显式给出的标志保持 nil，区别于显式置零值
	req := buildRequest(rootCmd)
	require.Nil(t, req.Deprecated)
	require.Nil(t, req.ReleaseNoteURL)
	require.Nil(t, req.Value)
	require.True(t, req.Empty())

	require.NoError(t, rootCmd.Flags().Set("deprecated", "false"))
	require.NoError(t, rootCmd.Flags().Set("key", "flags.rollout"))
	require.NoError(t, rootCmd.Flags().Set("value", "42"))

	req = buildRequest(rootCmd)
	require.NotNil(t, req.Deprecated)
	require.False(t, *req.Deprecated)
	require.Equal(t, "flags.rollout", req.Key)
	require.NotNil(t, req.Value)
	require.Equal(t, "42", *req.Value)
}

func TestDefaultProviders(t *testing.T) {
	t.Run("defaultRemoteProvider", func(t *testing.T) {
		remote := defaultRemoteProvider("http://127.0.0.1:9", "token")
		require.NotNil(t, remote)
		require.Implements(t, (*remoteInterface)(nil), remote)
	})

	t.Run("defaultGateProvider", func(t *testing.T) {
		flagYes = true
		require.IsType(t, ui.AutoGate{}, defaultGateProvider())

		flagYes = false
		require.IsType(t, &ui.TerminalGate{}, defaultGateProvider())
	})
}

func TestRenderStatusBar(t *testing.T) {
	success := renderStatusBar("Committed 2 changed to version 1.2.3", true)
	require.Contains(t, success, "✓")
	require.Contains(t, success, "Committed 2 changed to version 1.2.3")

	progress := renderStatusBar("Fetching...", false)
	require.Contains(t, progress, "▶")
}
