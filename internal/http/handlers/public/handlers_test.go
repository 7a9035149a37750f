package public

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/config"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/provider"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testCartView struct {
	Items []struct {
		Key       string `json:"key"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
		Selected  bool   `json:"selected"`
	} `json:"items"`
	Total       string `json:"total"`
	ItemCount   int    `json:"item_count"`
	AllSelected bool   `json:"all_selected"`
}

func newTestEngine(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Share: config.ShareConfig{
		BaseURL:        "https://shop.example.com",
		CurrencySymbol: "₹",
		WhatsAppNumber: "919876543210",
	}}
	h := New(provider.NewContainerWithStore(cfg, cache.NewMemoryStore()))

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/cart", h.GetCart)
	api.DELETE("/cart", h.ClearCart)
	api.GET("/cart/events", h.StreamCart)
	api.POST("/cart/items", h.AddCartItem)
	api.PUT("/cart/items", h.UpdateCartItem)
	api.DELETE("/cart/items", h.RemoveCartItem)
	api.GET("/cart/selection", h.GetSelection)
	api.POST("/cart/selection/toggle", h.ToggleSelection)
	api.POST("/cart/selection/toggle-all", h.ToggleAllSelection)
	api.POST("/cart/selection/delete", h.DeleteSelected)
	api.POST("/cart/share-link", h.CreateShareLink)
	api.POST("/cart/share-message", h.CreateShareMessage)
	api.GET("/shared-cart", h.GetSharedCart)
	api.POST("/shared-cart/import", h.ImportSharedCart)
	api.POST("/shared-carts", h.CreateSharedCart)
	api.GET("/shared-carts/:id", h.GetSharedCartByID)
	api.DELETE("/shared-carts/:id", h.DeleteSharedCart)
	api.POST("/orders", h.PlaceOrder)
	api.GET("/orders/:id", h.GetOrder)
	return h, r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: expected http 200, got %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response failed: %v body=%s", method, path, err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(env.Data))
	}
}

func riceProduct() models.Product {
	return models.Product{
		ID:        "rice",
		Name:      "Basmati Rice",
		BasePrice: 100,
		Units: []models.ProductUnit{
			{Label: "500g", PriceFactor: 0.5},
			{Label: "1kg", PriceFactor: 1},
		},
	}
}

func addRice(t *testing.T, r *gin.Engine, unit string, qty int) testCartView {
	t.Helper()
	product := riceProduct()
	for _, u := range product.Units {
		if u.Label == unit {
			product.SelectedUnit = u
		}
	}
	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product": product, "quantity": qty})
	if env.StatusCode != response.CodeOK {
		t.Fatalf("add item failed: %d %s", env.StatusCode, env.Msg)
	}
	var view testCartView
	decodeData(t, env, &view)
	return view
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
	}
}

func TestCartAddUpdateRemove(t *testing.T) {
	_, r := newTestEngine(t)

	addRice(t, r, "1kg", 2)
	view := addRice(t, r, "1kg", 1)
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("same line should merge, got %+v", view.Items)
	}
	view = addRice(t, r, "500g", 1)
	if len(view.Items) != 2 || view.ItemCount != 4 || view.Total != "350.00" {
		t.Fatalf("unexpected cart: %+v", view)
	}

	env := doJSON(t, r, http.MethodPut, "/api/v1/cart/items", gin.H{"product_id": "rice", "unit_label": "1kg", "quantity": 5})
	decodeData(t, env, &view)
	if view.ItemCount != 6 || view.Total != "550.00" {
		t.Fatalf("update failed: %+v", view)
	}

	key := models.NewLineKey("rice", "500g").String()
	env = doJSON(t, r, http.MethodDelete, "/api/v1/cart/items?key="+url.QueryEscape(key), nil)
	decodeData(t, env, &view)
	if len(view.Items) != 1 || view.Items[0].Key != models.NewLineKey("rice", "1kg").String() {
		t.Fatalf("remove by key failed: %+v", view.Items)
	}

	env = doJSON(t, r, http.MethodDelete, "/api/v1/cart/items?product_id=rice&unit_label=1kg", nil)
	decodeData(t, env, &view)
	if len(view.Items) != 0 || view.Total != "0.00" {
		t.Fatalf("remove by product failed: %+v", view)
	}
}

func TestCartRejectsInvalidQuantity(t *testing.T) {
	_, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product": riceProduct(), "quantity": 0})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("zero quantity should be rejected, got %d", env.StatusCode)
	}
	env = doJSON(t, r, http.MethodPut, "/api/v1/cart/items", gin.H{"product_id": "rice", "unit_label": "1kg", "quantity": -1})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("negative quantity should be rejected, got %d", env.StatusCode)
	}
	env = doJSON(t, r, http.MethodDelete, "/api/v1/cart/items?key=broken", nil)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("malformed key should be rejected, got %d", env.StatusCode)
	}
	env = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product": models.Product{Name: "no id"}})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("missing product id should be rejected, got %d", env.StatusCode)
	}
}

func TestCartAddDefaultsQuantity(t *testing.T) {
	_, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product": riceProduct()})
	var view testCartView
	decodeData(t, env, &view)
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 || view.Total != "50.00" {
		t.Fatalf("omitted quantity should default to first unit x1, got %+v", view)
	}
}

func TestClearCartResetsSelection(t *testing.T) {
	h, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)
	doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle-all", nil)
	if h.Selection.Len() != 1 {
		t.Fatalf("toggle-all should select the line")
	}

	env := doJSON(t, r, http.MethodDelete, "/api/v1/cart", nil)
	var view testCartView
	decodeData(t, env, &view)
	if len(view.Items) != 0 {
		t.Fatalf("cart should be empty")
	}
	if h.Selection.Len() != 0 {
		t.Fatalf("selection should be cleared with the cart")
	}
}

func TestSelectionToggleAndDelete(t *testing.T) {
	_, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)
	addRice(t, r, "500g", 2)

	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/delete", nil)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("empty selection delete should be rejected, got %d", env.StatusCode)
	}

	key := models.NewLineKey("rice", "500g").String()
	env = doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle", gin.H{"key": key})
	var selection SelectionView
	decodeData(t, env, &selection)
	if selection.Count != 1 || selection.Keys[0] != key || selection.AllSelected {
		t.Fatalf("unexpected selection: %+v", selection)
	}

	env = doJSON(t, r, http.MethodGet, "/api/v1/cart", nil)
	var view testCartView
	decodeData(t, env, &view)
	for _, item := range view.Items {
		if item.Selected != (item.Key == key) {
			t.Fatalf("line %s selected=%v", item.Key, item.Selected)
		}
	}

	env = doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/delete", nil)
	var result struct {
		Removed []string      `json:"removed"`
		Failed  []interface{} `json:"failed"`
		Cart    testCartView  `json:"cart"`
	}
	decodeData(t, env, &result)
	if len(result.Removed) != 1 || result.Removed[0] != key || len(result.Failed) != 0 {
		t.Fatalf("unexpected batch delete result: %+v", result)
	}
	if len(result.Cart.Items) != 1 || result.Cart.ItemCount != 1 {
		t.Fatalf("unexpected cart after delete: %+v", result.Cart)
	}

	env = doJSON(t, r, http.MethodGet, "/api/v1/cart/selection", nil)
	decodeData(t, env, &selection)
	if selection.Count != 0 {
		t.Fatalf("selection should be cleared after delete")
	}
}

func TestRemoveCartItemDropsSelection(t *testing.T) {
	h, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)
	addRice(t, r, "500g", 1)

	removed := models.NewLineKey("rice", "500g").String()
	kept := models.NewLineKey("rice", "1kg").String()
	doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle", gin.H{"key": removed})
	doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle", gin.H{"key": kept})

	env := doJSON(t, r, http.MethodDelete, "/api/v1/cart/items?key="+url.QueryEscape(removed), nil)
	if env.StatusCode != response.CodeOK {
		t.Fatalf("remove failed: %d %s", env.StatusCode, env.Msg)
	}

	var selection SelectionView
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/cart/selection", nil), &selection)
	if selection.Count != 1 || selection.Keys[0] != kept {
		t.Fatalf("removed line should leave the selection, got %+v", selection)
	}
	if h.Selection.IsSelected(models.NewLineKey("rice", "500g")) {
		t.Fatalf("removed line still selected")
	}
}

func TestSelectionToggleAllFlips(t *testing.T) {
	_, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)
	addRice(t, r, "500g", 1)

	var selection SelectionView
	decodeData(t, doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle-all", nil), &selection)
	if !selection.AllSelected || selection.Count != 2 {
		t.Fatalf("toggle-all should select every line: %+v", selection)
	}
	decodeData(t, doJSON(t, r, http.MethodPost, "/api/v1/cart/selection/toggle-all", nil), &selection)
	if selection.AllSelected || selection.Count != 0 {
		t.Fatalf("second toggle-all should clear: %+v", selection)
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	h, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/share-link", nil)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("sharing empty cart should fail, got %d", env.StatusCode)
	}

	addRice(t, r, "1kg", 2)
	env = doJSON(t, r, http.MethodPost, "/api/v1/cart/share-link", nil)
	var link struct {
		Link string `json:"link"`
	}
	decodeData(t, env, &link)
	if !strings.HasPrefix(link.Link, "https://shop.example.com/shared-cart?cartData=") {
		t.Fatalf("unexpected link %s", link.Link)
	}
	parsed, err := url.Parse(link.Link)
	if err != nil {
		t.Fatalf("parse link failed: %v", err)
	}
	cartData := parsed.Query().Get("cartData")

	env = doJSON(t, r, http.MethodGet, "/api/v1/shared-cart?cartData="+url.QueryEscape(cartData), nil)
	var shared struct {
		Status    string `json:"status"`
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
	}
	decodeData(t, env, &shared)
	if shared.Status != "found" || shared.Total != "200.00" || shared.ItemCount != 2 {
		t.Fatalf("unexpected shared view: %+v", shared)
	}

	if err := h.CartStore.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	env = doJSON(t, r, http.MethodPost, "/api/v1/shared-cart/import?cartData="+url.QueryEscape(cartData), nil)
	var imported struct {
		Imported int          `json:"imported"`
		Cart     testCartView `json:"cart"`
	}
	decodeData(t, env, &imported)
	if imported.Imported != 1 || imported.Cart.ItemCount != 2 {
		t.Fatalf("unexpected import: %+v", imported)
	}
}

func TestSharedCartInvalidLink(t *testing.T) {
	_, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodGet, "/api/v1/shared-cart?cartData=not-a-snapshot", nil)
	var shared struct {
		Status string `json:"status"`
	}
	decodeData(t, env, &shared)
	if shared.Status != "invalid_link" {
		t.Fatalf("expected invalid_link, got %s", shared.Status)
	}
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/shared-cart", nil), &shared)
	if shared.Status != "no_data" {
		t.Fatalf("expected no_data, got %s", shared.Status)
	}
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/shared-cart?cartData=", nil), &shared)
	if shared.Status != "invalid_link" {
		t.Fatalf("empty cartData should be invalid_link, got %s", shared.Status)
	}

	env = doJSON(t, r, http.MethodPost, "/api/v1/shared-cart/import?cartData=not-a-snapshot", nil)
	if env.StatusCode != response.CodeBadRequest || env.Msg != msgSharedCartInvalid {
		t.Fatalf("corrupted import should be rejected, got %d %s", env.StatusCode, env.Msg)
	}
}

func TestShareMessageIncludesWhatsAppURL(t *testing.T) {
	_, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)

	env := doJSON(t, r, http.MethodPost, "/api/v1/cart/share-message", gin.H{"link": "https://shop.example.com/x"})
	var data struct {
		Link        string `json:"link"`
		Message     string `json:"message"`
		WhatsAppURL string `json:"whatsapp_url"`
	}
	decodeData(t, env, &data)
	if data.Link != "https://shop.example.com/x" {
		t.Fatalf("explicit link should be kept, got %s", data.Link)
	}
	if !strings.Contains(data.Message, "Basmati Rice (1kg) x 1 = *₹100.00*") {
		t.Fatalf("unexpected message: %s", data.Message)
	}
	if !strings.HasPrefix(data.WhatsAppURL, "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected whatsapp url: %s", data.WhatsAppURL)
	}
}

func TestSharedCartRegistry(t *testing.T) {
	_, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodPost, "/api/v1/shared-carts", nil)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("empty cart should not be registered, got %d", env.StatusCode)
	}

	addRice(t, r, "500g", 3)
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, doJSON(t, r, http.MethodPost, "/api/v1/shared-carts", nil), &created)
	if len(created.ID) != 7 {
		t.Fatalf("unexpected id %q", created.ID)
	}

	var view struct {
		Status    string `json:"status"`
		ID        string `json:"id"`
		ItemCount int    `json:"item_count"`
	}
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/shared-carts/"+created.ID, nil), &view)
	if view.Status != "found" || view.ID != created.ID || view.ItemCount != 3 {
		t.Fatalf("unexpected registry view: %+v", view)
	}

	doJSON(t, r, http.MethodDelete, "/api/v1/shared-carts/"+created.ID, nil)
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/shared-carts/"+created.ID, nil), &view)
	if view.Status != "not_found" {
		t.Fatalf("deleted cart should be not_found, got %s", view.Status)
	}
}

func TestPlaceOrderFlow(t *testing.T) {
	h, r := newTestEngine(t)

	env := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"shipping_address": validAddress(), "payment_method": "cod"})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("empty cart order should be rejected, got %d", env.StatusCode)
	}

	addRice(t, r, "1kg", 2)
	env = doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"shipping_address": validAddress(), "payment_method": "bitcoin"})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("unknown payment method should be rejected, got %d", env.StatusCode)
	}
	env = doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"shipping_address": models.ShippingAddress{FullName: "x"}, "payment_method": "cod"})
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("incomplete address should be rejected, got %d", env.StatusCode)
	}
	if len(h.CartStore.CurrentItems()) != 1 {
		t.Fatalf("rejected orders must keep the cart")
	}

	env = doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"shipping_address": validAddress(), "payment_method": "upi"})
	var receipt struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	decodeData(t, env, &receipt)
	if !strings.HasPrefix(receipt.OrderID, "ORD-") || receipt.Status != "pending_payment" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if len(h.CartStore.CurrentItems()) != 0 {
		t.Fatalf("cart should be cleared after order")
	}

	var order struct {
		ID    string `json:"id"`
		Total string `json:"total"`
	}
	decodeData(t, doJSON(t, r, http.MethodGet, "/api/v1/orders/"+receipt.OrderID, nil), &order)
	if order.ID != receipt.OrderID || order.Total != "200.00" {
		t.Fatalf("unexpected stored order: %+v", order)
	}

	env = doJSON(t, r, http.MethodGet, "/api/v1/orders/ORD-0-0", nil)
	if env.StatusCode != response.CodeNotFound {
		t.Fatalf("unknown order should be 404, got %d", env.StatusCode)
	}
}

// closeNotifyingRecorder 为 SSE 测试补齐 CloseNotifier
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStreamCartSendsCurrentCart(t *testing.T) {
	_, r := newTestEngine(t)
	addRice(t, r, "1kg", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/events", nil).WithContext(ctx)
	w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	r.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event:cart") {
		t.Fatalf("expected cart event, got %q", body)
	}
	if !strings.Contains(body, `"total":"100.00"`) {
		t.Fatalf("expected current cart in first event, got %q", body)
	}
}
