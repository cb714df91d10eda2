package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ncb6206/SIKBOO/internal/config"
)

// OllamaGenerator implements RecipeGenerator against an Ollama-compatible
// chat API (local Ollama or Ollama Cloud with a bearer token).
type OllamaGenerator struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
}

// NewOllamaGenerator builds a generator from the AI config. The HTTP client
// carries no timeout of its own; callers bound each request via context.
func NewOllamaGenerator(cfg config.AIConfig) *OllamaGenerator {
	return &OllamaGenerator{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		token:      cfg.Token,
		httpClient: &http.Client{},
	}
}

// Generate runs one chat completion and decodes the structured recipe payload.
func (o *OllamaGenerator) Generate(ctx context.Context, input Input) (*Result, error) {
	messages := []map[string]string{
		{"role": "system", "content": systemPrompt},
		{"role": "user", "content": buildUserPrompt(input)},
	}

	payload := map[string]interface{}{
		"model":    o.model,
		"messages": messages,
		"stream":   false,
		"format":   "json",
	}

	body, err := o.post(ctx, "/api/chat", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama chat decode: %w", err)
	}

	doc := ExtractJSON(resp.Message.Content)
	if doc == "" {
		return nil, fmt.Errorf("ollama chat: no JSON object in reply")
	}

	var result Result
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return nil, fmt.Errorf("ollama chat: decode recipe payload: %w", err)
	}

	return result.Sanitize(input.Ingredients), nil
}

func (o *OllamaGenerator) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

const systemPrompt = `당신은 한국 가정식 전문 요리사입니다. 사용자가 가진 재료를 기반으로 레시피를 추천합니다.
반드시 아래 JSON 스키마로만 응답하세요. 설명이나 코드 펜스 없이 JSON 객체 하나만 출력합니다.
{
  "notice": "건강 관련 주의사항 (없으면 빈 문자열)",
  "have": [{"title": "요리명", "ingredients": {"have": [], "need": [], "seasoning": []}, "steps": []}],
  "need": [{"title": "요리명", "ingredients": {"have": [], "need": [], "seasoning": []}, "steps": []}]
}
"have"에는 보유 재료만으로 만들 수 있는 요리를, "need"에는 1~3가지 재료만 더 사면 만들 수 있는 요리를 담으세요.
밥, 쌀, 물은 항상 보유한 것으로 간주합니다.`

func buildUserPrompt(input Input) string {
	var b strings.Builder

	b.WriteString("보유 재료: ")
	if len(input.Ingredients) > 0 {
		b.WriteString(strings.Join(input.Ingredients, ", "))
	} else {
		b.WriteString("없음")
	}
	b.WriteString("\n")

	if len(input.Diseases) > 0 {
		b.WriteString("질환 (식단에 반영): ")
		b.WriteString(strings.Join(input.Diseases, ", "))
		b.WriteString("\n")
	}
	if len(input.Allergies) > 0 {
		b.WriteString("알레르기 (절대 사용 금지): ")
		b.WriteString(strings.Join(input.Allergies, ", "))
		b.WriteString("\n")
	}

	b.WriteString("각 목록에 2개씩 레시피를 추천해 주세요.")
	return b.String()
}
