package models

import (
	"errors"
	"net/url"
	"strings"
)

// lineKeySeparator 行标识分隔符，组成部分中的分隔符与 % 会被转义
const lineKeySeparator = "_"

// ErrInvalidLineKey 行标识格式错误
var ErrInvalidLineKey = errors.New("invalid line key")

// LineKey 购物车行标识（商品ID + 规格）
type LineKey struct {
	ProductID string `json:"product_id"`
	UnitLabel string `json:"unit_label"`
}

// NewLineKey 创建行标识
func NewLineKey(productID, unitLabel string) LineKey {
	return LineKey{ProductID: productID, UnitLabel: unitLabel}
}

// String 编码为字符串形式，ParseLineKey 可无歧义还原
func (k LineKey) String() string {
	return escapeKeyPart(k.ProductID) + lineKeySeparator + escapeKeyPart(k.UnitLabel)
}

// ParseLineKey 解析字符串形式的行标识
func ParseLineKey(raw string) (LineKey, error) {
	productPart, unitPart, ok := strings.Cut(raw, lineKeySeparator)
	if !ok || strings.Contains(unitPart, lineKeySeparator) {
		return LineKey{}, ErrInvalidLineKey
	}
	productID, err := url.PathUnescape(productPart)
	if err != nil {
		return LineKey{}, ErrInvalidLineKey
	}
	unitLabel, err := url.PathUnescape(unitPart)
	if err != nil {
		return LineKey{}, ErrInvalidLineKey
	}
	if strings.TrimSpace(productID) == "" {
		return LineKey{}, ErrInvalidLineKey
	}
	return LineKey{ProductID: productID, UnitLabel: unitLabel}, nil
}

func escapeKeyPart(part string) string {
	part = strings.ReplaceAll(part, "%", "%25")
	return strings.ReplaceAll(part, lineKeySeparator, "%5F")
}
