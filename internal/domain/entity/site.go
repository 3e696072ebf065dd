package entity

// Sitios físicos de la operación. El stock se lleva de forma independiente
// por sitio: un producto lógico tiene una fila por sitio (clave name+site).
const (
	SiteAbidjan = "abidjan"
	SiteBassam  = "bassam"
)

// Sites lista los sitios válidos en orden estable.
var Sites = []string{SiteAbidjan, SiteBassam}

// ValidSite indica si s es un sitio conocido.
func ValidSite(s string) bool {
	return s == SiteAbidjan || s == SiteBassam
}
