package public

import (
	"io"
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"github.com/gin-gonic/gin"
)

const cartEventName = "cart"

// AddCartItemRequest 加入购物车请求；quantity 省略时为 1
type AddCartItemRequest struct {
	Product  models.Product `json:"product"`
	Quantity *int           `json:"quantity"`
}

// UpdateCartItemRequest 更新数量请求
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	UnitLabel string `json:"unit_label"`
	Quantity  int    `json:"quantity"`
}

// CartLineView 购物车行响应
type CartLineView struct {
	Key       string         `json:"key"`
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	UnitPrice models.Money   `json:"unit_price"`
	LineTotal models.Money   `json:"line_total"`
	Selected  bool           `json:"selected"`
}

// CartView 购物车响应
type CartView struct {
	Items       []CartLineView `json:"items"`
	Total       models.Money   `json:"total"`
	ItemCount   int            `json:"item_count"`
	AllSelected bool           `json:"all_selected"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.cartView(h.CartStore.CurrentItems()))
}

// StreamCart 以 SSE 推送购物车，连接建立后先推送当前购物车
func (h *Handler) StreamCart(c *gin.Context) {
	updates, cancel := h.CartStore.Observe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case cart, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent(cartEventName, h.cartView(cart.Items))
			return true
		}
	})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		response.BadRequest(c, msgQuantityInvalid)
		return
	}
	if err := h.CartStore.AddLine(req.Product, quantity); err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, h.cartView(h.CartStore.CurrentItems()))
}

// UpdateCartItem 更新购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	if req.Quantity < 1 {
		response.BadRequest(c, msgQuantityInvalid)
		return
	}
	if err := h.CartStore.UpdateQuantity(req.ProductID, req.UnitLabel, req.Quantity); err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, h.cartView(h.CartStore.CurrentItems()))
}

// RemoveCartItem 删除购物车行，支持 key 或 product_id + unit_label；该行同时移出选择集
func (h *Handler) RemoveCartItem(c *gin.Context) {
	key, ok := lineKeyFromQuery(c)
	if !ok {
		return
	}
	if err := h.CartStore.RemoveLine(key.ProductID, key.UnitLabel); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.Selection.Deselect(key)
	response.Success(c, h.cartView(h.CartStore.CurrentItems()))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartStore.Clear(); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.Selection.Clear()
	response.Success(c, h.cartView(h.CartStore.CurrentItems()))
}

func (h *Handler) cartView(items []models.CartItem) CartView {
	lines := make([]CartLineView, 0, len(items))
	for _, item := range items {
		key := item.Key()
		lines = append(lines, CartLineView{
			Key:       key.String(),
			Product:   item.Product,
			Quantity:  item.Quantity,
			UnitPrice: models.NewMoneyFromDecimal(item.UnitPrice()),
			LineTotal: item.LineTotal(),
			Selected:  h.Selection.IsSelected(key),
		})
	}
	return CartView{
		Items:       lines,
		Total:       models.TotalOf(items),
		ItemCount:   models.ItemCountOf(items),
		AllSelected: h.Selection.AllSelected(items),
	}
}

func lineKeyFromQuery(c *gin.Context) (models.LineKey, bool) {
	if raw := strings.TrimSpace(c.Query("key")); raw != "" {
		key, err := models.ParseLineKey(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, msgLineKeyInvalid, err)
			return models.LineKey{}, false
		}
		return key, true
	}
	productID := strings.TrimSpace(c.Query("product_id"))
	if productID == "" {
		response.BadRequest(c, msgBadRequest)
		return models.LineKey{}, false
	}
	return models.NewLineKey(productID, c.Query("unit_label")), true
}
