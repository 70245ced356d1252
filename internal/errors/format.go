package errors

import (
	"errors"
	"strings"

	"github.com/fatih/color"
)

// Format 将错误格式化为用户友好的终端输出。
// ConfitError 会展示 Message、Cause 与 Suggestion；其他错误原样展示。
func Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var ce *ConfitError
	if !errors.As(err, &ce) {
		sb.WriteString(color.RedString("Error: %s", err.Error()))
		sb.WriteString("\n")
		return sb.String()
	}

	// 错误消息（红色）
	sb.WriteString(color.RedString("Error: %s", ce.Message))
	sb.WriteString("\n")

	// 详细信息（如果有）
	if ce.Cause != nil {
		sb.WriteString(color.YellowString("Details: %s", ce.Cause.Error()))
		sb.WriteString("\n")
	}

	// 建议（如果有）
	if ce.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(ce.Suggestion)
		sb.WriteString("\n")
	}

	if ce.Retryable {
		sb.WriteString("\n")
		sb.WriteString("This looks transient; re-run the command to try again.\n")
	}

	return sb.String()
}
