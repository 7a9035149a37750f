package models

import "strings"

// ProductUnit 商品规格（如 250g / 1kg），PriceFactor 为相对基础价格的倍数
type ProductUnit struct {
	Label       string  `json:"label"`
	PriceFactor float64 `json:"priceFactor"`
}

// Product 商品快照
// SelectedUnit / SelectedQuantity 为前台选择状态，加入购物车时随商品一起复制
type Product struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	BasePrice        float64       `json:"basePrice"`
	Units            []ProductUnit `json:"units"`
	Category         string        `json:"category"`
	ImageURLs        []string      `json:"imageUrls"`
	SelectedUnit     ProductUnit   `json:"selectedUnit"`
	SelectedQuantity int           `json:"selectedQuantity"`
}

// Clone 深拷贝商品，购物车行不得与目录数据共享切片
func (p Product) Clone() Product {
	out := p
	if p.Units != nil {
		out.Units = make([]ProductUnit, len(p.Units))
		copy(out.Units, p.Units)
	}
	if p.ImageURLs != nil {
		out.ImageURLs = make([]string, len(p.ImageURLs))
		copy(out.ImageURLs, p.ImageURLs)
	}
	return out
}

// DefaultUnit 解析加入购物车时使用的规格
// 已选规格按标签在 Units 中查找并返回目录中的规格（价格倍数以目录为准）；未选择时取第一个规格。
// Units 非空而标签不在其中，或既无已选规格也无规格列表时返回 false。
func (p Product) DefaultUnit() (ProductUnit, bool) {
	if strings.TrimSpace(p.SelectedUnit.Label) == "" {
		if len(p.Units) > 0 {
			return p.Units[0], true
		}
		return ProductUnit{}, false
	}
	if len(p.Units) == 0 {
		return p.SelectedUnit, true
	}
	for _, unit := range p.Units {
		if unit.Label == p.SelectedUnit.Label {
			return unit, true
		}
	}
	return ProductUnit{}, false
}

// Key 返回商品与已选规格组成的行标识
func (p Product) Key() LineKey {
	return NewLineKey(p.ID, p.SelectedUnit.Label)
}
