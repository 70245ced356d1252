// Package diff 计算两个 JSON 实体之间的结构化差异。
//
// 差异以叶子路径粒度给出，可直接作为 sjson 路径操作重放到旧实体上。
// 两个实体深度相等时 Compute 返回 nil。
package diff

import (
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/penwyp/confit/document"
)

// Kind 是单条变更的类别。
type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindChanged Kind = "changed"
)

// Change 是一条叶子级变更。Before/After 保存原始 JSON 字面量，
// 新增时 Before 为空，删除时 After 为空。
type Change struct {
	Path   string
	Kind   Kind
	Before string
	After  string
}

// Delta 是一次编辑产生的全部变更。
// 顺序稳定：先按新实体的文档顺序列出新增与修改，再按旧实体顺序列出删除。
type Delta struct {
	Changes []Change
}

// Stats 返回各类变更的数量。
func (d *Delta) Stats() (added, removed, changed int) {
	for _, c := range d.Changes {
		switch c.Kind {
		case KindAdded:
			added++
		case KindRemoved:
			removed++
		case KindChanged:
			changed++
		}
	}
	return
}

// Compute 比较两个 JSON 实体，返回结构化差异。
// 深度相等（数值按数值比较，忽略空白与键值编码差异）时返回 nil。
func Compute(before, after []byte) *Delta {
	var changes []Change
	walk("", gjson.ParseBytes(before), gjson.ParseBytes(after), &changes)
	if len(changes) == 0 {
		return nil
	}
	return &Delta{Changes: changes}
}

func walk(path string, b, a gjson.Result, out *[]Change) {
	switch {
	case b.IsObject() && a.IsObject():
		walkObject(path, b, a, out)
	case b.IsArray() && a.IsArray():
		walkArray(path, b, a, out)
	default:
		if !scalarEqual(b, a) {
			*out = append(*out, Change{Path: path, Kind: KindChanged, Before: b.Raw, After: a.Raw})
		}
	}
}

func walkObject(path string, b, a gjson.Result, out *[]Change) {
	// 第一遍：按新实体的文档顺序处理新增与修改。
	a.ForEach(func(key, av gjson.Result) bool {
		p := join(path, key.String())
		bv := b.Get(document.EscapeKey(key.String()))
		if !bv.Exists() {
			appendAdded(p, av, out)
			return true
		}
		walk(p, bv, av, out)
		return true
	})
	// 第二遍：按旧实体顺序补上删除。
	b.ForEach(func(key, bv gjson.Result) bool {
		if !a.Get(document.EscapeKey(key.String())).Exists() {
			appendRemoved(join(path, key.String()), bv, out)
		}
		return true
	})
}

// walkArray 对等长数组逐下标递归；长度变化会使后续下标整体漂移，
// 逐元素差异无法重放到旧实体，故收敛为数组路径上的单条修改。
func walkArray(path string, b, a gjson.Result, out *[]Change) {
	ba, aa := b.Array(), a.Array()
	if len(ba) != len(aa) {
		*out = append(*out, Change{Path: path, Kind: KindChanged, Before: b.Raw, After: a.Raw})
		return
	}
	for i := range aa {
		walk(path+"."+strconv.Itoa(i), ba[i], aa[i], out)
	}
}

// appendAdded 将新增值展开到叶子路径，逐路径 set 即可重建新增内容。
// 数组、标量与空对象整体记在当前路径上，保证空容器的新增不会被吞掉。
func appendAdded(path string, v gjson.Result, out *[]Change) {
	if v.IsObject() {
		n := 0
		v.ForEach(func(key, cv gjson.Result) bool {
			n++
			appendAdded(join(path, key.String()), cv, out)
			return true
		})
		if n > 0 {
			return
		}
	}
	*out = append(*out, Change{Path: path, Kind: KindAdded, After: v.Raw})
}

// appendRemoved 与新增不同，始终整体记在消失的键上：
// 逐叶子删除会在旧实体里留下空壳父对象，无法重放出新实体。
func appendRemoved(path string, v gjson.Result, out *[]Change) {
	*out = append(*out, Change{Path: path, Kind: KindRemoved, Before: v.Raw})
}

func scalarEqual(b, a gjson.Result) bool {
	if b.Type != a.Type {
		return false
	}
	switch b.Type {
	case gjson.Number:
		return b.Num == a.Num
	case gjson.String:
		return b.Str == a.Str
	default:
		return b.Raw == a.Raw
	}
}

func join(path, key string) string {
	k := document.EscapeKey(key)
	if path == "" {
		return k
	}
	return path + "." + k
}
