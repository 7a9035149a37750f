package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/codec"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
)

const whatsAppEndpoint = "https://wa.me/"

// ErrWhatsAppNotConfigured 未配置 WhatsApp 联系号码
var ErrWhatsAppNotConfigured = errors.New("whatsapp number not configured")

// ShareOptions 分享配置
type ShareOptions struct {
	BaseURL        string
	CurrencySymbol string
	WhatsAppNumber string
}

// SharedCartView 分享购物车只读视图，不会写入当前购物车
type SharedCartView struct {
	Status    string            `json:"status"`
	ID        string            `json:"id,omitempty"`
	Items     []models.CartItem `json:"items"`
	Total     models.Money      `json:"total"`
	ItemCount int               `json:"item_count"`
}

// ShareService 购物车分享服务
type ShareService struct {
	cart     *CartStore
	registry *SharedCartService
	codec    codec.Codec
	opts     ShareOptions
}

// NewShareService 创建分享服务
func NewShareService(cart *CartStore, registry *SharedCartService, c codec.Codec, opts ShareOptions) *ShareService {
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	opts.WhatsAppNumber = strings.TrimSpace(opts.WhatsAppNumber)
	return &ShareService{cart: cart, registry: registry, codec: c, opts: opts}
}

// Permalink 生成携带完整快照的分享链接；baseURL 为空时使用配置值
func (s *ShareService) Permalink(baseURL string) (string, error) {
	items := s.cart.CurrentItems()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	encoded, err := s.codec.Encode(items)
	if err != nil {
		return "", err
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = s.opts.BaseURL
	}
	return base + constants.SharedCartPath + "?" + constants.SharedCartQueryParam + "=" + encoded, nil
}

// ResolveLink 解析分享链接中的快照为只读视图
// present 为 false 表示链接不带快照参数（no_data）；参数存在但为空同样按无效链接处理
func (s *ShareService) ResolveLink(cartData string, present bool) SharedCartView {
	if !present {
		return emptyView(constants.SharedCartStatusNoData)
	}
	items, err := s.codec.Decode(strings.TrimSpace(cartData))
	if err != nil {
		logger.Debugw("shared_cart_link_invalid", "error", err)
		return emptyView(constants.SharedCartStatusInvalidLink)
	}
	return newView(constants.SharedCartStatusFound, items)
}

// ImportLink 将分享链接中的快照合并进当前购物车，返回导入行数
func (s *ShareService) ImportLink(cartData string) (int, error) {
	items, err := s.codec.Decode(strings.TrimSpace(cartData))
	if err != nil {
		return 0, err
	}
	if err := s.cart.ImportItems(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ShareToRegistry 将当前购物车保存到分享登记表
func (s *ShareService) ShareToRegistry(ctx context.Context) (string, error) {
	items := s.cart.CurrentItems()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	return s.registry.Save(ctx, items)
}

// ResolveRegistry 按 id 读取登记表中的快照
func (s *ShareService) ResolveRegistry(ctx context.Context, id string) (SharedCartView, error) {
	items, ok, err := s.registry.Get(ctx, id)
	if err != nil {
		return SharedCartView{}, err
	}
	if !ok {
		return emptyView(constants.SharedCartStatusNotFound), nil
	}
	view := newView(constants.SharedCartStatusFound, items)
	view.ID = strings.TrimSpace(id)
	return view, nil
}

// ShareMessage 生成适合即时通讯发送的购物车文本
func (s *ShareService) ShareMessage(link string) (string, error) {
	items := s.cart.CurrentItems()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	symbol := s.opts.CurrencySymbol

	var b strings.Builder
	b.WriteString("*🛒 Your Cart Details 🛒*\n\n")
	b.WriteString("*Items:*\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (%s) x %d = *%s%s*\n",
			i+1, item.Product.Name, item.Product.SelectedUnit.Label, item.Quantity, symbol, item.LineTotal())
	}
	b.WriteString("\n--------------------------\n")
	fmt.Fprintf(&b, "*📦 Total Items:* %d\n", models.ItemCountOf(items))
	fmt.Fprintf(&b, "*💰 Grand Total:* *%s%s*\n", symbol, models.TotalOf(items))
	b.WriteString("*🚚 Shipping:* T&C\n")
	b.WriteString("--------------------------\n\n")
	if link = strings.TrimSpace(link); link != "" {
		fmt.Fprintf(&b, "Click here to view your cart:\n%s\n\n", link)
	}
	b.WriteString("Thank you for your interest! 😊")
	return b.String(), nil
}

// WhatsAppURL 生成打开 WhatsApp 会话的链接
func (s *ShareService) WhatsAppURL(message string) (string, error) {
	if s.opts.WhatsAppNumber == "" {
		return "", ErrWhatsAppNotConfigured
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppEndpoint + s.opts.WhatsAppNumber + "?text=" + text, nil
}

func newView(status string, items []models.CartItem) SharedCartView {
	if items == nil {
		items = []models.CartItem{}
	}
	return SharedCartView{
		Status:    status,
		Items:     items,
		Total:     models.TotalOf(items),
		ItemCount: models.ItemCountOf(items),
	}
}

func emptyView(status string) SharedCartView {
	return newView(status, nil)
}
