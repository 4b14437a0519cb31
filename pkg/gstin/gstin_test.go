package gstin_test

import (
	"testing"

	"github.com/jhoicas/invorya-gst/pkg/gstin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validGSTINs = []string{
	"27AAPFU0939F1ZV",
	"29AAGCB7383J1Z4",
	"07AAACR5055K1Z9",
	"24AAACC1206D1ZM",
}

func TestValidate_GSTINValidos(t *testing.T) {
	for _, g := range validGSTINs {
		assert.NoError(t, gstin.Validate(g), "GSTIN %s debería ser válido", g)
	}
}

func TestComputeCheckChar(t *testing.T) {
	for _, g := range validGSTINs {
		c, err := gstin.ComputeCheckChar(g[:14])
		require.NoError(t, err)
		assert.Equal(t, g[14], c, "control de %s", g)
	}
}

func TestValidate_ControlIncorrecto(t *testing.T) {
	err := gstin.Validate("27AAPFU0939F1ZA")
	assert.ErrorIs(t, err, gstin.ErrInvalidCheckChar)
	assert.NoError(t, gstin.ValidateFormat("27AAPFU0939F1ZA"), "el formato es correcto aunque el control no")
}

func TestValidateFormat_Rechazos(t *testing.T) {
	cases := map[string]string{
		"corto":           "27AAPFU0939F1Z",
		"sin Z":           "27AAPFU0939F1XV",
		"PAN mal formado": "27AAPF10939F1ZV",
		"estado 00":       "00AAPFU0939F1ZV",
		"estado 45":       "45AAPFU0939F1ZV",
		"entidad cero":    "27AAPFU0939F0ZV",
		"minúsculas":      "27aapfu0939f1zv",
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, gstin.ValidateFormat(g), gstin.ErrInvalidFormat)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "27AAPFU0939F1ZV", gstin.Normalize("  27aapfu 0939f1zv "))
	assert.Equal(t, "27", gstin.StateCode("27AAPFU0939F1ZV"))
}
