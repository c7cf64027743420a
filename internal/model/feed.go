package model

import "github.com/shopspring/decimal"

// Receipt is one completed sale transaction. Date is the feed date the row
// was sourced from (YYYY-MM-DD), attached by the loader.
type Receipt struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	Date   string `json:"date"`
}

// CartItem is one line of a receipt.
type CartItem struct {
	ReceiptID  string          `json:"receipt_id"`
	Qty        decimal.Decimal `json:"qty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Date       string          `json:"date"`
}

// LossDocument is one write-off event.
type LossDocument struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	TypeID string `json:"type_id"`
	Date   string `json:"date"`
}

// LossProduct is one line of a write-off document.
type LossProduct struct {
	DocumentID string          `json:"document_id"`
	Qty        decimal.Decimal `json:"qty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Date       string          `json:"date"`
}
