package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Útiles Escolares":     "utiles-escolares",
		"Papelería y Oficina":  "papeleria-y-oficina",
		"  Lápices 2B  ":       "lapices-2b",
		"Ñoquis & Más":         "noquis-mas",
		"CUADERNOS":            "cuadernos",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "entrada %q", in)
	}
}
