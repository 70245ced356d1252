package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/penwyp/confit/client"
	"github.com/penwyp/confit/diff"
	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/editor"
	"github.com/penwyp/confit/internal/config"
	"github.com/penwyp/confit/internal/errors"
	"github.com/penwyp/confit/internal/logger"
	"github.com/penwyp/confit/session"
	"github.com/penwyp/confit/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version holds the current version of confit
// This will be set at build time via ldflags
var version = "dev"

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("confit version %s", version)
}

// TokenEnvVar 携带配置服务 Bearer 令牌的环境变量。
const TokenEnvVar = "CONFIT_API_TOKEN"

// 将关键依赖抽象为接口以便测试时注入 Mock。
// 若在运行时未被替换，则使用默认实现。
var (
	remoteProvider func(endpoint, token string) remoteInterface = defaultRemoteProvider
	gateProvider   func() ui.Gate                               = defaultGateProvider
	appLogger      *zap.Logger                                  // 全局日志记录器
)

type remoteInterface interface {
	Fetch(ctx context.Context) (*document.Document, error)
	Persist(ctx context.Context, doc *document.Document) error
	ConfigURL() string
}

// ---------------- 默认实现 ------------------

func defaultRemoteProvider(endpoint, token string) remoteInterface {
	return client.NewClient(endpoint, token, showProgress(), appLogger)
}

func defaultGateProvider() ui.Gate {
	if flagYes {
		return ui.AutoGate{}
	}
	return ui.NewTerminalGate()
}

// showProgress 仅在 stderr 连接终端时启用进度动画，
// 避免转圈字符混入重定向后的日志。
func showProgress() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// setupLogger 初始化全局日志记录器，供各子命令复用。
func setupLogger() error {
	l, err := logger.New(flagDebug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger = l
	return nil
}

// resolveEndpoint 读取本地配置并解析目标环境的服务地址。
func resolveEndpoint() (string, error) {
	cfg, err := config.LoadOrDefault(flagConfigPath)
	if err != nil {
		return "", err
	}
	name, endpoint, err := cfg.Resolve(flagEnv)
	if err != nil {
		return "", err
	}
	if appLogger != nil {
		appLogger.Debug("resolved environment",
			zap.String("environment", name),
			zap.String("endpoint", endpoint))
	}
	return endpoint, nil
}

// friendly 以用户可读的格式输出错误并抑制 Cobra 的用法回显。
// 返回原始错误，保证进程以非零码退出。
func friendly(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	_, _ = fmt.Fprintln(cmd.OutOrStderr(), errors.Format(err))
	return err
}

// renderStatusBar 渲染带样式的状态条
func renderStatusBar(message string, isSuccess bool) string {
	var style lipgloss.Style
	if isSuccess {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Background(lipgloss.Color("22")). // Dark green
			Bold(true).
			Padding(0, 1)
	} else {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Background(lipgloss.Color("19")). // Dark blue
			Bold(true).
			Padding(0, 1)
	}

	// 创建进度指示符
	indicator := "▶"
	if isSuccess {
		indicator = "✓"
	}

	styledMessage := style.Render(indicator + " " + message)
	return styledMessage
}

// -------------------------------------------------

var rootCmd = &cobra.Command{
	Use:   "confit",
	Short: "Interactive editor for the remote SDK version configuration",
	Long: `confit edits the remote SDK version configuration document through a
mutate → diff → confirm → commit workflow.

Features:
- Fetches the live document and applies edits locally first
- Shows a colored field-level diff before anything is written
- Never commits without explicit confirmation (or --yes)
- Preserves untouched entries byte-for-byte
- Multiple environment support (production/staging)`,
	RunE: run,
}

var (
	flagSDKVersion     string
	flagDeprecated     bool
	flagReleaseNoteURL string
	flagKey            string
	flagValue          string
	flagDelete         bool
	flagEnv            string
	flagConfigPath     string
	flagYes            bool
	flagDryRun         bool
	flagDebug          bool
	flagVersion        bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEnv, "env", "e", "", "target environment (defaults to the configured default)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to the confit config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug output for troubleshooting")

	rootCmd.Flags().StringVarP(&flagSDKVersion, "sdk-version", "s", "", "SDK version to edit (prompts when omitted)")
	rootCmd.Flags().BoolVar(&flagDeprecated, "deprecated", false, "set the deprecated flag on the entry")
	rootCmd.Flags().StringVarP(&flagReleaseNoteURL, "release-note-url", "r", "", "set the release note URL on the entry")
	rootCmd.Flags().StringVarP(&flagKey, "key", "k", "", "dot-separated path of the entry field to modify")
	rootCmd.Flags().StringVarP(&flagValue, "value", "v", "", "value to write at --key (JSON literal, or plain string)")
	rootCmd.Flags().BoolVar(&flagDelete, "delete", false, "remove the entry field at --key")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip prompts: pick defaults and apply without asking")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show the diff but do not commit")
	rootCmd.Flags().BoolVar(&flagVersion, "version", false, "show version information")

	rootCmd.AddCommand(newListCommand(), newStatusCommand())
}

func Execute() error { return rootCmd.Execute() }

func ExecuteContext(ctx context.Context) error { return rootCmd.ExecuteContext(ctx) }

func run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if flagVersion {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		return nil
	}

	if err := setupLogger(); err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx := cmd.Context()

	endpoint, err := resolveEndpoint()
	if err != nil {
		return friendly(cmd, err)
	}

	remote := remoteProvider(endpoint, os.Getenv(TokenEnvVar))
	sess := session.New(remote, gateProvider(), cmd.OutOrStdout(), flagDryRun, appLogger)

	result, err := sess.Run(ctx, buildRequest(cmd), flagSDKVersion)
	if err != nil {
		return friendly(cmd, err)
	}

	if result.Outcome == session.OutcomeApplied {
		message := fmt.Sprintf("Committed %s to version %s", diff.Summary(result.Delta), result.Version)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar(message, true))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config URL: %s\n", remote.ConfigURL())
	}
	return nil
}

// buildRequest 将命令行标志转换为编辑请求。未出现的标志保持 nil，
// 以区分"未提供"与"显式置为零值"。
func buildRequest(cmd *cobra.Command) *editor.Request {
	req := &editor.Request{
		Key:    flagKey,
		Delete: flagDelete,
	}
	if cmd.Flags().Changed("deprecated") {
		req.Deprecated = &flagDeprecated
	}
	if cmd.Flags().Changed("release-note-url") {
		req.ReleaseNoteURL = &flagReleaseNoteURL
	}
	if cmd.Flags().Changed("value") {
		req.Value = &flagValue
	}
	return req
}
