package document

import (
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/penwyp/confit/internal/errors"
)

// Mutator 在单个版本实体上按点分路径执行写入与删除。
// 路径语义遵循 gjson：`a.b.c` 逐层下钻，字面点需用 EscapeKey 转义。
type Mutator struct {
	logger *zap.Logger
}

// NewMutator 创建路径修改器。
func NewMutator(logger *zap.Logger) *Mutator {
	return &Mutator{logger: logger}
}

// Set 将路径写为给定的 Go 值（sjson 负责编码），缺失的中间对象会被自动创建。
// 路径上已有的标量会被新建的对象覆盖。
func (m *Mutator) Set(entry []byte, path string, value interface{}) ([]byte, error) {
	if path == "" {
		return nil, errors.New(errors.ErrTypeValidation, "mutation path cannot be empty")
	}
	m.logger.Debug("setting key", zap.String("path", path))
	out, err := sjson.SetBytes(entry, path, value)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeDocument, "failed to set "+path, err)
	}
	return out, nil
}

// SetRaw 将路径写为一段已编码的 JSON 字面量，其余行为与 Set 一致。
func (m *Mutator) SetRaw(entry []byte, path string, raw string) ([]byte, error) {
	if path == "" {
		return nil, errors.New(errors.ErrTypeValidation, "mutation path cannot be empty")
	}
	m.logger.Debug("setting key", zap.String("path", path), zap.String("raw", raw))
	out, err := sjson.SetRawBytes(entry, path, []byte(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeDocument, "failed to set "+path, err)
	}
	return out, nil
}

// Delete 删除路径对应的键。路径不存在时静默返回原实体，不视为错误。
func (m *Mutator) Delete(entry []byte, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New(errors.ErrTypeValidation, "mutation path cannot be empty")
	}
	m.logger.Debug("deleting key", zap.String("path", path))
	out, err := sjson.DeleteBytes(entry, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeDocument, "failed to delete "+path, err)
	}
	return out, nil
}
