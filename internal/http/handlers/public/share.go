package public

import (
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ShareLinkRequest 生成分享链接请求；base_url 省略时使用配置
type ShareLinkRequest struct {
	BaseURL string `json:"base_url"`
}

// ShareMessageRequest 生成分享文本请求；link 省略时自动生成分享链接
type ShareMessageRequest struct {
	Link string `json:"link"`
}

// CreateShareLink 生成分享链接
func (h *Handler) CreateShareLink(c *gin.Context) {
	var req ShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	link, err := h.ShareService.Permalink(req.BaseURL)
	if err != nil {
		respondShareError(c, err)
		return
	}
	response.Success(c, gin.H{"link": link})
}

// CreateShareMessage 生成即时通讯分享文本与 WhatsApp 链接
func (h *Handler) CreateShareMessage(c *gin.Context) {
	var req ShareMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	link := strings.TrimSpace(req.Link)
	if link == "" {
		generated, err := h.ShareService.Permalink("")
		if err != nil {
			respondShareError(c, err)
			return
		}
		link = generated
	}
	message, err := h.ShareService.ShareMessage(link)
	if err != nil {
		respondShareError(c, err)
		return
	}
	data := gin.H{"link": link, "message": message}
	if whatsAppURL, err := h.ShareService.WhatsAppURL(message); err == nil {
		data["whatsapp_url"] = whatsAppURL
	}
	response.Success(c, data)
}

// GetSharedCart 解析分享链接为只读视图；缺少参数返回 no_data，参数为空或无效返回 invalid_link
func (h *Handler) GetSharedCart(c *gin.Context) {
	cartData, present := c.GetQuery(constants.SharedCartQueryParam)
	response.Success(c, h.ShareService.ResolveLink(cartData, present))
}

// ImportSharedCart 将分享链接中的商品合并进当前购物车
func (h *Handler) ImportSharedCart(c *gin.Context) {
	cartData := strings.TrimSpace(c.Query(constants.SharedCartQueryParam))
	if cartData == "" {
		response.BadRequest(c, msgSharedCartInvalid)
		return
	}
	imported, err := h.ShareService.ImportLink(cartData)
	if err != nil {
		respondSharedCartImportError(c, err)
		return
	}
	response.Success(c, gin.H{
		"imported": imported,
		"cart":     h.cartView(h.CartStore.CurrentItems()),
	})
}
