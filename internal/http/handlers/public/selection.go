package public

import (
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"github.com/gin-gonic/gin"
)

// ToggleSelectionRequest 切换选择请求
type ToggleSelectionRequest struct {
	Key string `json:"key" binding:"required"`
}

// SelectionView 选择状态响应
type SelectionView struct {
	Keys        []string `json:"keys"`
	Count       int      `json:"count"`
	AllSelected bool     `json:"all_selected"`
}

// BatchDeleteFailureView 批量删除失败行
type BatchDeleteFailureView struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BatchDeleteView 批量删除响应
type BatchDeleteView struct {
	Removed []string                 `json:"removed"`
	Failed  []BatchDeleteFailureView `json:"failed"`
	Cart    CartView                 `json:"cart"`
}

// GetSelection 获取已选行
func (h *Handler) GetSelection(c *gin.Context) {
	response.Success(c, h.selectionView())
}

// ToggleSelection 切换单行选择
func (h *Handler) ToggleSelection(c *gin.Context) {
	var req ToggleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	key, err := models.ParseLineKey(req.Key)
	if err != nil {
		respondError(c, response.CodeBadRequest, msgLineKeyInvalid, err)
		return
	}
	h.Selection.Toggle(key)
	response.Success(c, h.selectionView())
}

// ToggleAllSelection 全选开关
func (h *Handler) ToggleAllSelection(c *gin.Context) {
	h.Selection.ToggleAll(h.CartStore.CurrentItems())
	response.Success(c, h.selectionView())
}

// DeleteSelected 删除已选行；单行失败不影响其余行，选择总会被清空
func (h *Handler) DeleteSelected(c *gin.Context) {
	if h.Selection.Len() == 0 {
		response.BadRequest(c, "no cart lines selected")
		return
	}
	result := h.Selection.ConfirmBatchDelete(h.CartStore)
	view := BatchDeleteView{
		Removed: make([]string, 0, len(result.Removed)),
		Failed:  make([]BatchDeleteFailureView, 0, len(result.Failed)),
	}
	for _, key := range result.Removed {
		view.Removed = append(view.Removed, key.String())
	}
	for _, failure := range result.Failed {
		view.Failed = append(view.Failed, BatchDeleteFailureView{Key: failure.Key.String(), Error: failure.Err.Error()})
	}
	view.Cart = h.cartView(h.CartStore.CurrentItems())
	response.Success(c, view)
}

func (h *Handler) selectionView() SelectionView {
	keys := h.Selection.Keys()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key.String())
	}
	return SelectionView{
		Keys:        out,
		Count:       len(out),
		AllSelected: h.Selection.AllSelected(h.CartStore.CurrentItems()),
	}
}
