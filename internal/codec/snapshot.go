// Package codec 购物车快照编解码：将购物车行编码为可直接放入 URL 的紧凑字符串。
//
// 编码流程：JSON → 标准 base64 → brotli 压缩 → base64url（无填充），并加上版本前缀 "v1."。
// 解码按相反顺序进行，任何一步失败都返回 ErrInvalidSnapshot，不会返回部分结果。
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"github.com/andybalholm/brotli"
)

const (
	// Version 当前快照格式版本
	Version = "v1"
	// DefaultMaxDecodedBytes 解压后允许的最大字节数
	DefaultMaxDecodedBytes int64 = 1 << 20

	versionSeparator = "."
)

// ErrInvalidSnapshot 快照为空、被截断、格式不符或版本未知
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Codec 快照编解码器
type Codec struct {
	MaxDecodedBytes int64
}

// Default 默认编解码器
var Default = Codec{MaxDecodedBytes: DefaultMaxDecodedBytes}

// New 创建编解码器，maxDecodedBytes <= 0 时使用默认上限
func New(maxDecodedBytes int64) Codec {
	if maxDecodedBytes <= 0 {
		maxDecodedBytes = DefaultMaxDecodedBytes
	}
	return Codec{MaxDecodedBytes: maxDecodedBytes}
}

// Encode 使用默认编解码器编码
func Encode(items []models.CartItem) (string, error) {
	return Default.Encode(items)
}

// Decode 使用默认编解码器解码
func Decode(text string) ([]models.CartItem, error) {
	return Default.Decode(text)
}

// Encode 编码购物车行
func (c Codec) Encode(items []models.CartItem) (string, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	text := base64.StdEncoding.EncodeToString(raw)

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := io.WriteString(w, text); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	return Version + versionSeparator + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode 解码购物车行；"[]" 快照返回空列表且无错误
func (c Codec) Decode(text string) ([]models.CartItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("empty input")
	}
	version, payload, ok := strings.Cut(text, versionSeparator)
	if !ok {
		return nil, invalid("missing version marker")
	}
	if version != Version {
		return nil, invalid(fmt.Sprintf("unsupported version %q", version))
	}

	compressed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(compressed) == 0 {
		return nil, invalid("payload is not url-safe base64")
	}

	limit := c.MaxDecodedBytes
	if limit <= 0 {
		limit = DefaultMaxDecodedBytes
	}
	inflated, err := io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(compressed)), limit+1))
	if err != nil {
		return nil, invalid("decompress failed")
	}
	if int64(len(inflated)) > limit {
		return nil, invalid("decoded snapshot too large")
	}

	raw, err := base64.StdEncoding.DecodeString(string(inflated))
	if err != nil {
		return nil, invalid("inner payload is not base64")
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, invalid("snapshot is not a list")
	}

	var items []models.CartItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, invalid("snapshot json malformed")
	}
	if err := validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

func validate(items []models.CartItem) error {
	seen := make(map[models.LineKey]struct{}, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Product.ID) == "" {
			return invalid(fmt.Sprintf("item %d has no product id", i))
		}
		if strings.TrimSpace(item.Product.SelectedUnit.Label) == "" {
			return invalid(fmt.Sprintf("item %d has no unit", i))
		}
		if item.Quantity < 1 {
			return invalid(fmt.Sprintf("item %d has quantity %d", i, item.Quantity))
		}
		key := item.Key()
		if _, dup := seen[key]; dup {
			return invalid(fmt.Sprintf("duplicate line %s", key))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, reason)
}
