package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Render 将 Delta 渲染为预览文本，每条变更一行：
//
//	+ releaseNoteUrl: "https://…"
//	- notes.author: "sdk-team"
//	~ isDeprecated: false → true
//
// 颜色由 lipgloss 按终端能力自动降级。
func Render(d *Delta) string {
	if d == nil || len(d.Changes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range d.Changes {
		b.WriteString("  ")
		switch c.Kind {
		case KindAdded:
			b.WriteString(addedStyle.Render("+ " + c.Path + ": " + c.After))
		case KindRemoved:
			b.WriteString(removedStyle.Render("- " + c.Path + ": " + c.Before))
		case KindChanged:
			b.WriteString(changedStyle.Render("~ "+c.Path+": ") + c.Before + changedStyle.Render(" → ") + c.After)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Summary 返回一行统计摘要，如 "1 added, 2 changed"。只列出非零类别。
func Summary(d *Delta) string {
	if d == nil {
		return "no changes"
	}
	added, removed, changed := d.Stats()
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", changed))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}
