package public

import (
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
}

// PlaceOrder 提交当前购物车，成功后购物车被清空
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	receipt, err := h.CheckoutService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		Address:       req.ShippingAddress,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	h.Selection.Clear()
	response.Success(c, receipt)
}

// GetOrder 查询已提交订单
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderLedger.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
