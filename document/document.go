// Package document 维护远端 JSON 配置文档的原始字节表示。
//
// 文档始终以原始字节保存，读取走 gjson、写入走 sjson 的字节级拼接，
// 保证未被编辑的部分在一次读写往返后逐字节不变（含键序与空白）。
// 版本实体挂在顶层 sdkVersions 映射下，其余顶层字段对本工具不透明，
// 原样透传。
package document

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/penwyp/confit/internal/errors"
)

// versionsKey 为承载版本实体映射的顶层字段。
const versionsKey = "sdkVersions"

// Document 是远端配置文档的不可变快照。
// 顶层必须是 JSON 对象；sdkVersions 下键为 SDK 版本号，
// 值为该版本的元数据实体。
type Document struct {
	raw []byte
}

// Parse 校验并包装一段原始 JSON。
// 非法 JSON、顶层非对象、sdkVersions 非映射均返回 ErrTypeDocument 错误。
func Parse(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New(errors.ErrTypeDocument, "remote document is not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, errors.Wrap(errors.ErrTypeDocument, "remote document has unexpected shape", errors.ErrNotAnObject)
	}
	if versions := root.Get(versionsKey); versions.Exists() && !versions.IsObject() {
		return nil, errors.Wrap(errors.ErrTypeDocument, "remote document has unexpected shape", errors.ErrVersionsNotMapping)
	}
	// Copy so the caller cannot mutate our snapshot through the shared slice.
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Document{raw: buf}, nil
}

// Raw 返回文档的原始字节。调用方不得修改返回值。
func (d *Document) Raw() []byte {
	return d.raw
}

// Versions 按文档内出现顺序返回 sdkVersions 下的全部版本键。
// sdkVersions 缺失视同空映射。
func (d *Document) Versions() []string {
	var versions []string
	gjson.GetBytes(d.raw, versionsKey).ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})
	return versions
}

// EntryCount 返回文档内的版本实体数量。
func (d *Document) EntryCount() int {
	return len(d.Versions())
}

// Has 判断指定版本是否已存在于文档中。
func (d *Document) Has(version string) bool {
	return gjson.GetBytes(d.raw, versionPath(version)).Exists()
}

// Entry 返回指定版本实体的原始 JSON 字节。
// 版本不存在时返回 (nil, false)。
func (d *Document) Entry(version string) ([]byte, bool) {
	res := gjson.GetBytes(d.raw, versionPath(version))
	if !res.Exists() {
		return nil, false
	}
	return []byte(res.Raw), true
}

// WithEntry 返回一份替换（或新增）了指定版本实体的新文档。
// 拼接通过 sjson 完成，实体之外的字节保持原样；
// sdkVersions 缺失时由 sjson 顺带创建。
func (d *Document) WithEntry(version string, entry []byte) (*Document, error) {
	raw, err := sjson.SetRawBytes(d.raw, versionPath(version), entry)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeDocument, "failed to splice entry into document", err)
	}
	return &Document{raw: raw}, nil
}

// versionPath 构造指向一个版本实体的 gjson 路径。
func versionPath(version string) string {
	return versionsKey + "." + EscapeKey(version)
}

// EscapeKey 转义 gjson 路径元字符，使含点的版本号可作为单段路径使用。
// 例如 "1.2.3" 会被转义为 `1\.2\.3`，否则点会被解释为路径分隔符。
func EscapeKey(key string) string {
	if !strings.ContainsAny(key, `.*?\`) {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
