// Package editor 描述并执行一次针对单个版本实体的编辑请求。
//
// 请求来自命令行标志，字段用指针区分"未给出"与"给出了零值"。
// 应用顺序固定：isDeprecated → releaseNoteUrl → 自定义键操作。
package editor

import (
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/internal/errors"
)

// 实体内置字段名。
const (
	FieldDeprecated     = "isDeprecated"
	FieldReleaseNoteURL = "releaseNoteUrl"
)

// Request 是一次命令行编辑请求。nil 指针表示对应标志未被显式给出。
type Request struct {
	Deprecated     *bool
	ReleaseNoteURL *string
	Key            string
	Value          *string
	Delete         bool
}

// Empty 表示请求未携带任何编辑。空请求是合法的，会话以"无变更"收尾。
func (r *Request) Empty() bool {
	return r.Deprecated == nil && r.ReleaseNoteURL == nil &&
		r.Key == "" && r.Value == nil && !r.Delete
}

// Validate 校验标志组合。非法组合在任何远端交互发生之前就会被拒绝。
func (r *Request) Validate() error {
	malformed := func(msg string) error {
		return errors.Wrap(errors.ErrTypeValidation, msg, errors.ErrMalformedRequest).
			WithSuggestion("Pass --key with exactly one of --value or --delete.")
	}
	if r.Key == "" {
		if r.Value != nil {
			return malformed("--value requires --key")
		}
		if r.Delete {
			return malformed("--delete requires --key")
		}
		return nil
	}
	if r.Value != nil && r.Delete {
		return malformed("--value and --delete are mutually exclusive")
	}
	if r.Value == nil && !r.Delete {
		return malformed("--key requires either --value or --delete")
	}
	return nil
}

// Applier 把编辑请求落到版本实体的原始字节上。
type Applier struct {
	mutator *document.Mutator
	logger  *zap.Logger
}

// NewApplier 创建编辑执行器。
func NewApplier(logger *zap.Logger) *Applier {
	return &Applier{
		mutator: document.NewMutator(logger),
		logger:  logger,
	}
}

// Apply 按固定顺序将请求应用到实体上，返回编辑后的实体字节。
// 输入实体不会被修改。--value 若是合法 JSON 字面量则按类型写入，
// 否则按字符串写入；删除不存在的键静默跳过。
func (a *Applier) Apply(entry []byte, req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := entry
	var err error

	if req.Deprecated != nil {
		out, err = a.mutator.Set(out, FieldDeprecated, *req.Deprecated)
		if err != nil {
			return nil, err
		}
	}

	if req.ReleaseNoteURL != nil {
		out, err = a.mutator.Set(out, FieldReleaseNoteURL, *req.ReleaseNoteURL)
		if err != nil {
			return nil, err
		}
	}

	if req.Key != "" {
		switch {
		case req.Delete:
			out, err = a.mutator.Delete(out, req.Key)
		case gjson.Valid(*req.Value):
			out, err = a.mutator.SetRaw(out, req.Key, *req.Value)
		default:
			out, err = a.mutator.Set(out, req.Key, *req.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
