package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/editor"
	"github.com/penwyp/confit/selector"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// newListCommand 构建 list 子命令：按版本从新到旧列出远端文档内容。
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List SDK versions in the remote configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogger(); err != nil {
				return err
			}
			defer func() { _ = appLogger.Sync() }()

			endpoint, err := resolveEndpoint()
			if err != nil {
				return friendly(cmd, err)
			}

			doc, err := remoteProvider(endpoint, os.Getenv(TokenEnvVar)).Fetch(cmd.Context())
			if err != nil {
				return friendly(cmd, err)
			}

			if doc.EntryCount() == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No versions configured yet.")
				return nil
			}
			renderVersionTable(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

// renderVersionTable 渲染版本表格，最新版本排在最前。
func renderVersionTable(out io.Writer, doc *document.Document) {
	versions := selector.SortedDescending(doc.Versions(), appLogger)
	seen := make(map[string]bool, len(versions))
	for _, v := range versions {
		seen[v] = true
	}
	// 无法按语义化版本解析的键保持文档顺序，排在末尾。
	for _, v := range doc.Versions() {
		if !seen[v] {
			versions = append(versions, v)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"VERSION", "DEPRECATED", "RELEASE NOTES"})
	for _, v := range versions {
		entry, _ := doc.Entry(v)
		t.AppendRow(table.Row{v, deprecatedCell(entry), releaseNoteCell(entry)})
	}
	t.Render()
}

func deprecatedCell(entry []byte) string {
	res := gjson.GetBytes(entry, editor.FieldDeprecated)
	if !res.Exists() {
		return "-"
	}
	if res.Bool() {
		return text.FgRed.Sprint("yes")
	}
	return text.FgGreen.Sprint("no")
}

func releaseNoteCell(entry []byte) string {
	if url := gjson.GetBytes(entry, editor.FieldReleaseNoteURL).String(); url != "" {
		return url
	}
	return "-"
}
