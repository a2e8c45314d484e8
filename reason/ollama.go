package reason

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/pairkit/core"
)

// OllamaProvider 是本地 Ollama 服务的客户端实现。
//
// 工程特征：
//   - 实时性：取决于本地算力，延迟可控
//   - 成本：无外部 API 费用，适合做 fallback 链的 secondary provider
//
// 使用场景：
//   - 外部 provider 超时/配额耗尽时的本地兜底
type OllamaProvider struct {
	// Endpoint 服务端点，如 "http://localhost:11434"
	Endpoint string

	// Model 模型名称，如 "llama3"
	Model string

	// Timeout 单次调用超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewOllamaProvider 创建一个新的 Ollama 客户端。
func NewOllamaProvider(endpoint, model string, opts ...OllamaOption) *OllamaProvider {
	p := &OllamaProvider{
		Endpoint: endpoint,
		Model:    model,
		Timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.httpClient = &http.Client{Timeout: p.Timeout}
	return p
}

// OllamaOption Ollama 客户端配置选项
type OllamaOption func(*OllamaProvider)

// WithOllamaTimeout 设置超时时间
func WithOllamaTimeout(timeout time.Duration) OllamaOption {
	return func(p *OllamaProvider) {
		if timeout > 0 {
			p.Timeout = timeout
		}
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Close() error { return nil }

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format,omitempty"` // "json" 强制结构化输出
	Stream   bool          `json:"stream"`
}

type ollamaResponse struct {
	Message chatMessage `json:"message"`
}

// GenerateReasoning 实现 core.ReasoningService 接口。
func (p *OllamaProvider) GenerateReasoning(ctx context.Context, req *core.ReasoningRequest) (*core.ReasoningResponse, error) {
	body, err := json.Marshal(ollamaRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: marshal request: "+err.Error())
	}

	url := p.Endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: build request: "+err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderTimeout,
				"reason: ollama call timed out")
		}
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: ollama call failed: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			fmt.Sprintf("reason: ollama status %d: %s", resp.StatusCode, data))
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: decode response: "+err.Error())
	}

	return parseReasoning(parsed.Message.Content)
}
