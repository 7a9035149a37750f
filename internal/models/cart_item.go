package models

import "github.com/shopspring/decimal"

// CartItem 购物车项，Product 为加入时的商品快照
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Key 返回购物车项的行标识
func (i CartItem) Key() LineKey {
	return i.Product.Key()
}

// Clone 深拷贝购物车项
func (i CartItem) Clone() CartItem {
	return CartItem{Product: i.Product.Clone(), Quantity: i.Quantity}
}

// UnitPrice 单价 = 基础价格 × 规格系数
func (i CartItem) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(i.Product.BasePrice).Mul(decimal.NewFromFloat(i.Product.SelectedUnit.PriceFactor))
}

// LineTotal 行小计 = 单价 × 数量
func (i CartItem) LineTotal() Money {
	return NewMoneyFromDecimal(i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Cart 购物车聚合
type Cart struct {
	Items []CartItem `json:"items"`
}

// Clone 深拷贝购物车
func (c Cart) Clone() Cart {
	return Cart{Items: CloneItems(c.Items)}
}

// CloneItems 深拷贝购物车项列表，nil 返回空列表
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// TotalOf 计算合计金额
func TotalOf(items []CartItem) Money {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return NewMoneyFromDecimal(sum)
}

// ItemCountOf 计算商品总件数
func ItemCountOf(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
