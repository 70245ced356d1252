package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/penwyp/confit/internal/config"
	"github.com/penwyp/confit/internal/errors"
	"github.com/spf13/cobra"
)

// newStatusCommand 构建 status 子命令：展示本地环境配置与凭证状态，
// 可选地探测远端连通性。
func newStatusCommand() *cobra.Command {
	var flagCheck bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configured environments and credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogger(); err != nil {
				return err
			}
			defer func() { _ = appLogger.Sync() }()

			cfg, err := config.LoadOrDefault(flagConfigPath)
			if err != nil {
				return friendly(cmd, err)
			}

			out := cmd.OutOrStdout()
			renderEnvironmentTable(out, cfg)

			if token := os.Getenv(TokenEnvVar); token != "" {
				_, _ = fmt.Fprintf(out, "Token: %s (%s)\n", color.GreenString("set"), TokenEnvVar)
			} else {
				_, _ = fmt.Fprintf(out, "Token: %s (export %s to authenticate)\n", color.YellowString("not set"), TokenEnvVar)
			}
			if override := os.Getenv(config.EndpointEnvVar); override != "" {
				_, _ = fmt.Fprintf(out, "Endpoint override: %s (%s)\n", override, config.EndpointEnvVar)
			}

			if !flagCheck {
				return nil
			}

			// --env 限定只探测单个环境，默认逐个探测全部环境。
			targets := cfg.EnvironmentNames()
			if flagEnv != "" {
				name, _, err := cfg.Resolve(flagEnv)
				if err != nil {
					return friendly(cmd, err)
				}
				targets = []string{name}
			}

			token := os.Getenv(TokenEnvVar)
			failures := 0
			_, _ = fmt.Fprintln(out, "Reachability:")
			for _, name := range targets {
				_, endpoint, err := cfg.Resolve(name)
				if err != nil {
					return friendly(cmd, err)
				}
				doc, err := remoteProvider(endpoint, token).Fetch(cmd.Context())
				if err != nil {
					failures++
					_, _ = fmt.Fprintf(out, "  %s: %s (%v)\n", name, color.RedString("failed"), err)
					continue
				}
				_, _ = fmt.Fprintf(out, "  %s: %s (%d versions)\n", name, color.GreenString("ok"), doc.EntryCount())
			}
			if failures > 0 {
				return friendly(cmd, errors.New(errors.ErrTypeNetwork,
					fmt.Sprintf("%d of %d environments unreachable", failures, len(targets))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagCheck, "check", false, "fetch each environment to verify connectivity")
	return cmd
}

// renderEnvironmentTable 渲染环境列表并标记默认环境。
func renderEnvironmentTable(out io.Writer, cfg *config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ENVIRONMENT", "ENDPOINT", "DEFAULT"})
	for _, name := range cfg.EnvironmentNames() {
		marker := ""
		if name == cfg.DefaultEnvironment {
			marker = "✓"
		}
		t.AppendRow(table.Row{name, cfg.Environments[name].Endpoint, marker})
	}
	t.Render()
}
