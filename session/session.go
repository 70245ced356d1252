// Package session 驱动一次完整的编辑会话：
// 校验请求 → 拉取文档 → 选定版本 → 应用编辑 → 计算差异 → 预览确认 → 写回。
//
// 不变式：只有用户确认过的非空差异才会触发写回；
// 空差异、拒绝确认与用户取消都以成功退出收尾，不触碰远端。
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/penwyp/confit/diff"
	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/editor"
	"github.com/penwyp/confit/selector"
	"github.com/penwyp/confit/ui"
)

// Outcome 是会话收尾方式。除硬错误外，所有收尾都映射到退出码 0。
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNoChanges
	OutcomeCanceled
	OutcomeDryRun
)

// Remote 抽象配置服务端，测试中以伪造实现注入。
type Remote interface {
	Fetch(ctx context.Context) (*document.Document, error)
	Persist(ctx context.Context, doc *document.Document) error
	ConfigURL() string
}

// Result 汇总会话结果，供命令层决定收尾输出。
type Result struct {
	Outcome Outcome
	Version string
	Delta   *diff.Delta
}

// Session 串联一次编辑会话所需的全部协作方。
type Session struct {
	remote  Remote
	gate    ui.Gate
	applier *editor.Applier
	sel     *selector.Selector
	logger  *zap.Logger
	out     io.Writer
	dryRun  bool
}

// New 创建编辑会话。预览与状态输出写入 out，交互走 gate。
func New(remote Remote, gate ui.Gate, out io.Writer, dryRun bool, logger *zap.Logger) *Session {
	return &Session{
		remote:  remote,
		gate:    gate,
		applier: editor.NewApplier(logger),
		sel:     selector.New(gate, logger),
		logger:  logger,
		out:     out,
		dryRun:  dryRun,
	}
}

// Run 执行会话状态机。requestedVersion 为空时进入交互式版本选择。
func (s *Session) Run(ctx context.Context, req *editor.Request, requestedVersion string) (*Result, error) {
	// 非法标志组合在任何远端交互发生之前拒绝。
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.remote.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetched remote document", zap.Int("versions", doc.EntryCount()))

	res, err := s.sel.Resolve(doc, requestedVersion)
	if err != nil {
		return s.finishOnCancel(err)
	}

	before := res.Entry
	after, err := s.applier.Apply(before, req)
	if err != nil {
		return nil, err
	}

	delta := diff.Compute(before, after)
	if delta == nil {
		// 与远端一致：跳过确认与提交，新版本的空实体也不会被创建。
		fmt.Fprintf(s.out, "No changes for version %s.\n", res.Version)
		return &Result{Outcome: OutcomeNoChanges, Version: res.Version}, nil
	}

	s.preview(res, delta)

	if s.dryRun {
		fmt.Fprintln(s.out, "Dry run, nothing committed.")
		return &Result{Outcome: OutcomeDryRun, Version: res.Version, Delta: delta}, nil
	}

	confirmed, err := s.gate.Confirm(fmt.Sprintf("Apply these changes to version %s?", res.Version), true)
	if err != nil {
		return s.finishOnCancel(err)
	}
	if !confirmed {
		fmt.Fprintln(s.out, "Canceled.")
		return &Result{Outcome: OutcomeCanceled, Version: res.Version}, nil
	}

	updated, err := doc.WithEntry(res.Version, after)
	if err != nil {
		return nil, err
	}
	if err := s.remote.Persist(ctx, updated); err != nil {
		return nil, err
	}
	s.logger.Debug("persisted document",
		zap.String("version", res.Version),
		zap.Bool("new_version", res.IsNew))

	return &Result{Outcome: OutcomeApplied, Version: res.Version, Delta: delta}, nil
}

// finishOnCancel 把用户主动中止映射为正常收尾，其余错误原样透传。
func (s *Session) finishOnCancel(err error) (*Result, error) {
	var declined *selector.CreationDeclinedError
	if stderrors.As(err, &declined) {
		fmt.Fprintf(s.out, "Canceled: creation of version %s declined.\n", declined.Version)
		return &Result{Outcome: OutcomeCanceled, Version: declined.Version}, nil
	}
	if stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(s.out, "Canceled.")
		return &Result{Outcome: OutcomeCanceled}, nil
	}
	return nil, err
}

func (s *Session) preview(res *selector.Resolution, delta *diff.Delta) {
	header := fmt.Sprintf("Changes for version %s", res.Version)
	if res.IsNew {
		header = fmt.Sprintf("Changes for new version %s", res.Version)
	}
	fmt.Fprintf(s.out, "\n%s (%s):\n", header, diff.Summary(delta))
	fmt.Fprint(s.out, diff.Render(delta))
	fmt.Fprintln(s.out)
}
