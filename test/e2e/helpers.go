package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// buildBinary 构建 confit 可执行文件并返回路径。
func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "confit-bin")

	cmd := exec.Command("go", "build", "-o", binPath, "github.com/penwyp/confit")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v, output: %s", err, string(out))
	}
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}
	return binPath
}

// fakeConfigService 模拟远端配置服务：GET 返回当前文档，PUT 覆盖之。
type fakeConfigService struct {
	mu        sync.Mutex
	document  []byte
	putBodies [][]byte
	authSeen  []string
	status    int // 非零时所有请求都返回该状态码
}

func newFakeConfigService(document string) *fakeConfigService {
	return &fakeConfigService{document: []byte(document)}
}

func (f *fakeConfigService) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return server
}

func (f *fakeConfigService) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.URL.Path != "/api/v1/config" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(f.document)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.document = body
		f.putBodies = append(f.putBodies, body)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// puts 返回已收到的全部 PUT 请求体副本。
func (f *fakeConfigService) puts() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.putBodies...)
}

// requests 返回已收到的请求数。
func (f *fakeConfigService) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.authSeen)
}

// lastAuth 返回最近一次请求携带的 Authorization 头。
func (f *fakeConfigService) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.authSeen) == 0 {
		return ""
	}
	return f.authSeen[len(f.authSeen)-1]
}
