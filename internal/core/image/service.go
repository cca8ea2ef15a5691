package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Payload 處理完成的圖片，餵給視覺模型的 inline data
type Payload struct {
	Base64   string
	MimeType string
}

// Service 圖片處理服務
// 接受 data URL、裸 base64 或 http(s) URL 的人臉照片，統一轉成 JPEG base64
type Service struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProcessImage 處理圖片
func (s *Service) ProcessImage(imageData string) (*Payload, error) {
	if imageData == "" {
		return nil, fmt.Errorf("image data is empty")
	}

	// URL：下載後處理
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		raw, err := s.download(imageData)
		if err != nil {
			return nil, err
		}
		return s.normalize(raw)
	}

	// data URL：拆出 mime 與 base64
	if strings.HasPrefix(imageData, "data:image/") {
		_, b64, err := SplitDataURL(imageData)
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 image: %w", err)
		}
		return s.normalize(raw)
	}

	// 裸 base64
	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("unrecognized image data format: %w", err)
	}
	return s.normalize(raw)
}

// SplitDataURL 將 data URL 拆成 mime type 與 base64 內容
func SplitDataURL(dataURL string) (mimeType, b64 string, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", "", fmt.Errorf("invalid image data URL format")
	}
	mimeType, b64, ok = strings.Cut(rest, ";base64,")
	if !ok || !strings.HasPrefix(mimeType, "image/") {
		return "", "", fmt.Errorf("invalid image data URL format")
	}
	return mimeType, b64, nil
}

// download 下載圖片
func (s *Service) download(url string) ([]byte, error) {
	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return raw, nil
}

// normalize 驗證大小與格式，統一重編碼為 JPEG
func (s *Service) normalize(raw []byte) (*Payload, error) {
	if int64(len(raw)) > s.maxSizeBytes {
		return nil, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if !isSupportedFormat(format) {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	return &Payload{
		Base64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: "image/jpeg",
	}, nil
}

// isSupportedFormat 檢查圖片格式
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
