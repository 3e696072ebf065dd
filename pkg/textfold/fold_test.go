package textfold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhr-resorts/gestion-api/pkg/textfold"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe", textfold.Fold("Café"))
	assert.Equal(t, "serviette eponge", textfold.Fold("  Serviette Éponge "))
	assert.Equal(t, "creme brulee", textfold.Fold("Crème Brûlée"))
	assert.Equal(t, "", textfold.Fold("   "))
}

func TestContains(t *testing.T) {
	assert.True(t, textfold.Contains("Serviette Éponge", "eponge"))
	assert.True(t, textfold.Contains("Café Touba", "CAFE"))
	assert.True(t, textfold.Contains("quoi que ce soit", ""))
	assert.False(t, textfold.Contains("Savon", "café"))
}
