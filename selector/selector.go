// Package selector 决定一次编辑会话针对的目标版本。
//
// 直接路径：--sdk-version 给出版本号，校验后定位或确认创建。
// 交互路径：倒序列出已知版本供选择，并提供自由输入入口。
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/internal/errors"
	"github.com/penwyp/confit/ui"
)

// freeTextItem 是交互列表末尾的自由输入入口。
const freeTextItem = "Enter another version..."

// Resolution 是版本选择的结果。IsNew 表示该版本尚不存在于文档中，
// Entry 是该版本当前的原始字节，新版本从空实体 {} 起步。
type Resolution struct {
	Version string
	IsNew   bool
	Entry   []byte
}

// CreationDeclinedError 表示用户拒绝创建不存在的版本。
type CreationDeclinedError struct {
	Version string
}

func (e *CreationDeclinedError) Error() string {
	return fmt.Sprintf("creation of version %s declined", e.Version)
}

// Selector 通过交互网关解析目标版本。
type Selector struct {
	gate   ui.Gate
	logger *zap.Logger
}

// New 创建版本选择器。
func New(gate ui.Gate, logger *zap.Logger) *Selector {
	return &Selector{gate: gate, logger: logger}
}

// Resolve 决定本次编辑针对的版本。
// requested 非空时直接校验并定位；为空时进入交互选择。
func (s *Selector) Resolve(doc *document.Document, requested string) (*Resolution, error) {
	if requested != "" {
		return s.resolveDirect(doc, requested)
	}

	versions := SortedDescending(doc.Versions(), s.logger)
	if len(versions) == 0 {
		input, err := s.gate.FreeText("No versions exist yet. Enter a new version", "1.0.0")
		if err != nil {
			return nil, err
		}
		return s.resolveDirect(doc, strings.TrimSpace(input))
	}

	items := make([]string, 0, len(versions)+1)
	items = append(items, versions...)
	items = append(items, freeTextItem)

	choice, err := s.gate.SelectFromList("Select a version to edit", items, versions[0])
	if err != nil {
		return nil, err
	}
	if choice == freeTextItem {
		input, err := s.gate.FreeText("Enter a version", "1.2.3")
		if err != nil {
			return nil, err
		}
		return s.resolveDirect(doc, strings.TrimSpace(input))
	}

	entry, _ := doc.Entry(choice)
	return &Resolution{Version: choice, Entry: entry}, nil
}

// resolveDirect 校验版本号格式；版本不存在时请求创建确认。
func (s *Selector) resolveDirect(doc *document.Document, version string) (*Resolution, error) {
	if err := validateVersion(version); err != nil {
		return nil, err
	}
	if entry, ok := doc.Entry(version); ok {
		return &Resolution{Version: version, Entry: entry}, nil
	}

	ok, err := s.gate.Confirm(fmt.Sprintf("Version %s does not exist. Create it?", version), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &CreationDeclinedError{Version: version}
	}

	s.logger.Debug("creating new version entry", zap.String("version", version))
	return &Resolution{Version: version, IsNew: true, Entry: []byte(`{}`)}, nil
}

func validateVersion(version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return errors.Wrap(errors.ErrTypeValidation, fmt.Sprintf("invalid semantic version %q", version), err).
			WithSuggestion("Use MAJOR.MINOR.PATCH, e.g. 1.4.0 or 2.0.0-rc.1.")
	}
	return nil
}

// SortedDescending 以语义化版本倒序排列，最新在前。
// 无法解析的键跳过并告警，不进入交互列表。
func SortedDescending(versions []string, logger *zap.Logger) []string {
	parsed := make(semver.Collection, 0, len(versions))
	for _, v := range versions {
		sv, err := semver.NewVersion(v)
		if err != nil {
			logger.Warn("skipping unparseable version key", zap.String("version", v))
			continue
		}
		parsed = append(parsed, sv)
	}
	sort.Sort(sort.Reverse(parsed))

	out := make([]string, len(parsed))
	for i, sv := range parsed {
		out[i] = sv.Original()
	}
	return out
}
