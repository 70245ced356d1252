package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/penwyp/confit/document"
	"github.com/penwyp/confit/internal/errors"
)

// basePath 是配置文档在服务端的固定路径。
const basePath = "/api/v1/config"

// Client 负责与远端配置服务交互。
// 该结构体通过注入的 http.Client 支持测试时的伪造服务器。
//
// 注意：所有公共方法都应接受 context.Context 以便调用方控制取消与超时。
//
// Example:
//
//	c := client.NewClient("https://config.penwyp.dev", os.Getenv("CONFIT_API_TOKEN"), false, logger)
//	doc, err := c.Fetch(ctx)
type Client struct {
	endpoint   string       // 配置服务基础地址，例如 https://config.penwyp.dev
	token      string       // Bearer 鉴权令牌，可为空
	httpClient *http.Client // 可注入自定义 http.Client，用于测试
	logger     *zap.Logger  // 结构化日志记录器
	progress   bool         // 是否在 stderr 上显示进度指示
}

// NewClient 创建配置服务客户端。
// 不设置 http.Client 超时，完全依赖 context 控制超时和取消。
func NewClient(endpoint, token string, progress bool, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
		progress:   progress,
	}
}

// ConfigURL 返回配置文档的完整地址。
func (c *Client) ConfigURL() string {
	return c.endpoint + basePath
}

// Fetch 拉取远端配置文档并解析校验。
func (c *Client) Fetch(ctx context.Context) (*document.Document, error) {
	sp := c.startSpinner("Fetching remote config...")
	defer stopSpinner(sp)

	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return document.Parse(body)
}

// Persist 将完整文档写回远端。
func (c *Client) Persist(ctx context.Context, doc *document.Document) error {
	sp := c.startSpinner("Committing changes...")
	defer stopSpinner(sp)

	_, err := c.do(ctx, http.MethodPut, doc.Raw())
	return err
}

// do 执行一次请求并返回响应体。取消与超时等传输层错误原样返回，
// 以便调用方区分用户中断与服务故障。
func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	requestID := uuid.New().String()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.ConfigURL(), body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeNetwork, "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.logger != nil {
		c.logger.Debug("config service request",
			zap.String("method", method),
			zap.String("url", c.ConfigURL()),
			zap.String("request_id", requestID),
			zap.Int("payload_size", len(payload)))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeNetwork, "failed to read response", err)
	}

	if c.logger != nil {
		c.logger.Debug("config service response",
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.Int("response_size", len(respBody)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode)
	}

	return respBody, nil
}

// statusError 将非 2xx 状态码映射为带类型的错误。
// 只记录状态码，不携带响应体内容以防泄露敏感信息。
func statusError(code int) error {
	msg := fmt.Sprintf("config service returned status %d", code)
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrTypeNetwork, msg).
			WithSuggestion("Check that CONFIT_API_TOKEN is set and valid.")
	case code == http.StatusTooManyRequests || code >= 500:
		return errors.NewRetryable(errors.ErrTypeNetwork, msg)
	default:
		return errors.New(errors.ErrTypeNetwork, msg)
	}
}

func (c *Client) startSpinner(suffix string) *spinner.Spinner {
	if !c.progress {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner) {
	if s != nil {
		s.Stop()
	}
}
