// Package textfold normaliza texto para búsquedas insensibles a acentos y
// mayúsculas. Los nombres de productos y categorías están en francés
// ("Café", "Serviette éponge"); una búsqueda por "cafe" debe encontrarlos.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // elimina marcas diacríticas combinantes
	norm.NFC,
)

// Fold devuelve s en minúsculas, sin diacríticos y sin espacios en los bordes.
func Fold(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Contains indica si haystack contiene needle tras normalizar ambos.
// Un needle vacío siempre coincide.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}
