package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, in := range []string{"en-zh", " EN_ZH ", "en→zh", "en->zh", "3"} {
		d, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, LangEN, d.From, in)
		assert.Equal(t, LangZH, d.To, in)
	}

	_, err := ParseDirection("fr-de")
	assert.Error(t, err)
	_, err = ParseDirection("5")
	assert.Error(t, err)
}

func TestDefaultDirection(t *testing.T) {
	d := DefaultDirection()
	assert.Equal(t, LangAuto, d.From)
	assert.Equal(t, LangZH, d.To)
	assert.Equal(t, "auto→zh", d.String())
}
