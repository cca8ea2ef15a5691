package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1/models"

// Client Gemini API 客戶端
// 視覺與文字生成共用同一個 resty client，逐請求切換模型
type Client struct {
	config *config.Config
	client *resty.Client
}

// contentPart 請求內容片段，文字與 inline 圖片共用
type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// generateResponse Gemini 回應結構
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// GenerateText 文字生成（保養流程、週期建議、產品排序都走這裡）
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []contentPart{{Text: prompt}},
			},
		},
	}
	return c.generate(ctx, c.config.Gemini.TextModel, req)
}

// GenerateVision 視覺生成（人臉圖片 + prompt）
func (c *Client) GenerateVision(ctx context.Context, prompt, imageBase64, mimeType string) (string, error) {
	if imageBase64 == "" {
		return "", fmt.Errorf("image data is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	req := generateRequest{
		Contents: []content{
			{
				Parts: []contentPart{
					{InlineData: &inlineData{MimeType: mimeType, Data: imageBase64}},
					{Text: prompt},
				},
			},
		},
	}
	return c.generate(ctx, c.config.Gemini.VisionModel, req)
}

// generate 發送請求並取出第一個候選文字
func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	common.LogInfo("Sending request to Gemini",
		zap.String("model", model),
		zap.Int("contents", len(req.Contents)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.Gemini.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/%s:generateContent", model))

	if err != nil {
		common.LogError("Failed to send request to Gemini",
			zap.Error(err),
			zap.String("model", model),
		)
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Gemini returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", model),
			zap.String("response", sanitizeResponse(resp.Body())),
		)
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode(), sanitizeResponse(resp.Body()))
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("Gemini API error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates in Gemini response")
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}

	common.LogInfo("Successfully generated response from Gemini",
		zap.String("model", model),
		zap.Int("content_length", len(text)),
	)

	return text, nil
}

// sanitizeResponse 清理回應內容，移除可能殘留的圖片數據
func sanitizeResponse(body []byte) string {
	s := string(body)
	if strings.Contains(s, "data:image/") || (len(s) > 100 && strings.Contains(s, "base64")) {
		return "[IMAGE_DATA_REMOVED]"
	}
	return s
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
