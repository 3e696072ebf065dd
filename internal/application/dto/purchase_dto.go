package dto

import (
	"github.com/shopspring/decimal"
)

// PurchaseLine una línea de una recepción de compras.
type PurchaseLine struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// SubmitPurchaseRequest recepción de compras: cada línea genera un movimiento
// IN bajo una misma referencia, en una sola transacción.
type SubmitPurchaseRequest struct {
	Site  string         `json:"site" validate:"required,oneof=abidjan bassam"`
	Note  string         `json:"note"`
	Items []PurchaseLine `json:"items" validate:"required,min=1,dive"`
}

// PurchaseResponse resultado de la recepción.
type PurchaseResponse struct {
	Reference string             `json:"reference"`
	Site      string             `json:"site"`
	Items     []MovementResponse `json:"items"`
}
