package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \t b\n c  "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Convenio", StripAccents("Convênio"))
	assert.Equal(t, "COMPETENCIA", StripAccents("COMPETÊNCIA"))
	assert.Equal(t, "liquido", StripAccents("líquido"))
	assert.Equal(t, "plain", StripAccents("plain"))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "valor liquido", foldKey("  Valor   Líquido "))
	assert.Equal(t, "codigo", foldKey("CÓDIGO"))
}
