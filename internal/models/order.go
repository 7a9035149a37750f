package models

import (
	"strings"
	"time"
)

// ShippingAddress 收货地址
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Normalize 去除各字段首尾空白
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		FullName:     strings.TrimSpace(a.FullName),
		Phone:        strings.TrimSpace(a.Phone),
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: strings.TrimSpace(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		Pincode:      strings.TrimSpace(a.Pincode),
	}
}

// Complete 必填字段是否齐全
func (a ShippingAddress) Complete() bool {
	n := a.Normalize()
	return n.FullName != "" && n.Phone != "" && n.AddressLine1 != "" && n.City != "" && n.State != "" && n.Pincode != ""
}

// Order 已提交的订单快照
type Order struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []CartItem      `json:"items"`
	Total         Money           `json:"total"`
	Address       ShippingAddress `json:"shippingAddress"`
	OrderDate     time.Time       `json:"orderDate"`
}
