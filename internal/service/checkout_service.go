package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/cache"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/queue"
)

// OrderRequest 提交给外部订单系统的请求
type OrderRequest struct {
	Items         []models.CartItem
	Total         models.Money
	Address       models.ShippingAddress
	PaymentMethod string
}

// OrderReceipt 外部订单系统的确认
type OrderReceipt struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// OrderSink 外部订单接收方；返回 nil 错误即视为已确认
type OrderSink interface {
	Submit(ctx context.Context, req OrderRequest) (OrderReceipt, error)
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	Address       models.ShippingAddress
	PaymentMethod string
}

// CheckoutService 结算服务
type CheckoutService struct {
	cart *CartStore
	sink OrderSink
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cart *CartStore, sink OrderSink) *CheckoutService {
	return &CheckoutService{cart: cart, sink: sink}
}

// PlaceOrder 提交当前购物车快照；仅在订单系统确认后清空购物车
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderReceipt, error) {
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if !isValidPaymentMethod(method) {
		return nil, ErrPaymentMethodInvalid
	}
	if !input.Address.Complete() {
		return nil, ErrShippingAddressInvalid
	}
	items := s.cart.CurrentItems()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	receipt, err := s.sink.Submit(ctx, OrderRequest{
		Items:         items,
		Total:         models.TotalOf(items),
		Address:       input.Address.Normalize(),
		PaymentMethod: method,
	})
	if err != nil {
		logger.Warnw("checkout_submit_failed", "payment_method", method, "item_count", models.ItemCountOf(items), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderSubmitFailed, err)
	}
	if err := s.cart.Clear(); err != nil {
		return nil, err
	}
	logger.Infow("checkout_order_placed", "order_id", receipt.OrderID, "status", receipt.Status)
	return &receipt, nil
}

// QueueOrderSink 通过异步队列投递订单；队列未启用时直接记账确认
type QueueOrderSink struct {
	client *queue.Client
	ledger *OrderLedger
	now    func() time.Time
}

// NewQueueOrderSink 创建队列订单接收方
func NewQueueOrderSink(client *queue.Client, ledger *OrderLedger) *QueueOrderSink {
	return &QueueOrderSink{client: client, ledger: ledger, now: time.Now}
}

// Submit 生成订单号与状态并投递
func (s *QueueOrderSink) Submit(ctx context.Context, req OrderRequest) (OrderReceipt, error) {
	now := s.now()
	order := models.Order{
		ID:            newOrderID(now),
		Status:        OrderStatusFor(req.PaymentMethod),
		PaymentMethod: req.PaymentMethod,
		Items:         models.CloneItems(req.Items),
		Total:         req.Total,
		Address:       req.Address,
		OrderDate:     now.UTC(),
	}
	if s.client.Enabled() {
		if err := s.client.EnqueueOrderSubmitted(ctx, queue.OrderSubmittedPayload{Order: order}); err != nil {
			return OrderReceipt{}, err
		}
	} else if err := s.ledger.Record(ctx, order); err != nil {
		return OrderReceipt{}, err
	}
	return OrderReceipt{OrderID: order.ID, Status: order.Status}, nil
}

// OrderStatusFor 货到付款直接确认，其余支付方式等待支付
func OrderStatusFor(paymentMethod string) string {
	if paymentMethod == constants.PaymentMethodCOD {
		return constants.OrderStatusConfirmed
	}
	return constants.OrderStatusPendingPayment
}

// OrderLedger 已提交订单记录，按订单号存入持久缓存
type OrderLedger struct {
	store cache.Store
}

// NewOrderLedger 创建订单记录
func NewOrderLedger(store cache.Store) *OrderLedger {
	return &OrderLedger{store: store}
}

// Record 写入订单
func (l *OrderLedger) Record(ctx context.Context, order models.Order) error {
	if strings.TrimSpace(order.ID) == "" {
		return ErrOrderNotFound
	}
	if err := cache.SetJSON(ctx, l.store, orderKey(order.ID), order); err != nil {
		return fmt.Errorf("record order %s: %w", order.ID, err)
	}
	return nil
}

// Get 读取订单
func (l *OrderLedger) Get(ctx context.Context, id string) (*models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrOrderNotFound
	}
	var order models.Order
	hit, err := cache.GetJSON(ctx, l.store, orderKey(id), &order)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func orderKey(id string) string {
	return constants.CacheKeyOrderPrefix + ":" + id
}

func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), rand.Intn(1000))
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCOD, constants.PaymentMethodUPI, constants.PaymentMethodCard:
		return true
	default:
		return false
	}
}
