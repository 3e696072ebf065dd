package entity

import "time"

// Category es una etiqueta de agrupación de productos. Borrarla no cascadea
// a los productos: las filas conservan el nombre de la categoría como texto.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
