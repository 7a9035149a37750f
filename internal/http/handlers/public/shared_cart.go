package public

import (
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateSharedCart 保存当前购物车到分享登记表
func (h *Handler) CreateSharedCart(c *gin.Context) {
	id, err := h.ShareService.ShareToRegistry(c.Request.Context())
	if err != nil {
		respondShareError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// GetSharedCartByID 按 id 读取分享购物车
func (h *Handler) GetSharedCartByID(c *gin.Context) {
	view, err := h.ShareService.ResolveRegistry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, response.CodeInternal, msgShareFailed, err)
		return
	}
	response.Success(c, view)
}

// DeleteSharedCart 删除分享购物车
func (h *Handler) DeleteSharedCart(c *gin.Context) {
	if err := h.SharedCartService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, response.CodeInternal, msgShareFailed, err)
		return
	}
	response.Success(c, nil)
}
