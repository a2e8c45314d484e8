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

// OpenAIProvider 是 OpenAI 兼容 chat completions 服务的客户端实现。
//
// 兼容所有暴露 /v1/chat/completions 的服务（OpenAI、Azure OpenAI、
// vLLM、各类网关），凭证与端点来自配置，不硬编码。
//
// 工程特征：
//   - 实时性：一般（生成式推理延迟秒级，必须设独立超时）
//   - 功能：完整（指令遵循好，结构化输出稳定）
//
// 使用场景：
//   - 作为 fallback 链的 primary provider
type OpenAIProvider struct {
	// Endpoint 服务端点，如 "https://api.openai.com"
	Endpoint string

	// Model 模型名称
	Model string

	// APIKey Bearer 凭证（来自 secrets/config）
	APIKey string

	// Timeout 单次调用超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewOpenAIProvider 创建一个新的 OpenAI 兼容客户端。
func NewOpenAIProvider(endpoint, model string, opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
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

// OpenAIOption OpenAI 客户端配置选项
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIKey 设置 API 凭证
func WithOpenAIKey(key string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.APIKey = key
	}
}

// WithOpenAITimeout 设置超时时间
func WithOpenAITimeout(timeout time.Duration) OpenAIOption {
	return func(p *OpenAIProvider) {
		if timeout > 0 {
			p.Timeout = timeout
		}
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Close() error { return nil }

// chatRequest / chatResponse 只保留用到的字段。
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateReasoning 实现 core.ReasoningService 接口。
func (p *OpenAIProvider) GenerateReasoning(ctx context.Context, req *core.ReasoningRequest) (*core.ReasoningResponse, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: marshal request: "+err.Error())
	}

	url := p.Endpoint + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: build request: "+err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderTimeout,
				"reason: openai call timed out")
		}
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: openai call failed: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			fmt.Sprintf("reason: openai status %d: %s", resp.StatusCode, data))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: decode response: "+err.Error())
	}
	if len(parsed.Choices) == 0 {
		return nil, core.NewDomainError(core.ModuleReason, core.ErrorCodeProviderError,
			"reason: response has no choices")
	}

	return parseReasoning(parsed.Choices[0].Message.Content)
}
