// Package stock contiene la aritmética pura del ledger de inventario.
// No depende de infraestructura: recibe totales ya consultados y decide.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain"
)

// Balance reconstruye el contador de stock de un (producto, sitio) desde
// primeros principios: total entradas - total salidas + deltas de ajustes.
// Es la fuente de verdad contra la que se valida cualquier edición.
func Balance(totalIn, totalOut, totalAdjust decimal.Decimal) decimal.Decimal {
	return totalIn.Sub(totalOut).Add(totalAdjust)
}

// ValidateNewQuantity aplica los dos primeros pasos de la secuencia de
// validación de una edición de cantidad:
//  1. la nueva cantidad debe ser estrictamente positiva;
//  2. si es igual a la actual, no hay nada que hacer (ErrNoChange, no es un error de usuario).
func ValidateNewQuantity(oldQty, newQty decimal.Decimal) error {
	if !newQty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if newQty.Equal(oldQty) {
		return domain.ErrNoChange
	}
	return nil
}

// EditPlan es el resultado de planificar una edición de cantidad válida.
type EditPlan struct {
	Diff         decimal.Decimal // newQty - oldQty; positivo = más salida
	NewStock     decimal.Decimal // contador vivo después de aplicar
	DerivedStock decimal.Decimal // totalIn - totalOutAfterEdit (chequeo autoritativo)
}

// PlanQuantityEdit valida una edición de cantidad de un movimiento OUT contra
// el ledger completo y contra el contador vivo, en ese orden:
//
//   - Chequeo autoritativo: con la cantidad editada reemplazada en el total de
//     salidas, el stock derivado (totalIn - totalOutAfterEdit) no puede quedar
//     negativo. Este chequeo es independiente del contador vivo.
//   - Chequeo del contador vivo: si la cantidad aumenta (sale más), el
//     incremento no puede exceder el stock disponible, y el contador
//     resultante no puede quedar negativo.
//
// Una disminución siempre libera stock: solo el chequeo derivado puede
// bloquearla, y una disminución nunca reduce el stock derivado.
func PlanQuantityEdit(oldQty, newQty, totalIn, totalOut, currentStock decimal.Decimal) (*EditPlan, error) {
	totalOutAfterEdit := totalOut.Sub(oldQty).Add(newQty)
	derived := totalIn.Sub(totalOutAfterEdit)
	if derived.IsNegative() {
		return nil, domain.ErrNegativeStock
	}

	diff := newQty.Sub(oldQty)
	if diff.IsPositive() && diff.GreaterThan(currentStock) {
		return nil, domain.ErrInsufficientStock
	}
	newStock := currentStock.Sub(diff)
	if newStock.IsNegative() {
		return nil, domain.ErrNegativeStock
	}

	return &EditPlan{Diff: diff, NewStock: newStock, DerivedStock: derived}, nil
}
