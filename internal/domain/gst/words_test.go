package gst_test

import (
	"testing"

	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/stretchr/testify/assert"
)

func TestIntegerInWords_SistemaIndio(t *testing.T) {
	cases := map[int64]string{
		0:         "ZERO",
		7:         "SEVEN",
		19:        "NINETEEN",
		40:        "FORTY",
		236:       "TWO HUNDRED THIRTY SIX",
		1000:      "ONE THOUSAND",
		100000:    "ONE LAKH",
		132160:    "ONE LAKH THIRTY TWO THOUSAND ONE HUNDRED SIXTY",
		1321600:   "THIRTEEN LAKH TWENTY ONE THOUSAND SIX HUNDRED",
		10000000:  "ONE CRORE",
		123456789: "TWELVE CRORE THIRTY FOUR LAKH FIFTY SIX THOUSAND SEVEN HUNDRED EIGHTY NINE",
		999999999: "NINETY NINE CRORE NINETY NINE LAKH NINETY NINE THOUSAND NINE HUNDRED NINETY NINE",
	}
	for n, want := range cases {
		assert.Equal(t, want, gst.IntegerInWords(n), "n=%d", n)
	}
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "ONE LAKH THIRTY TWO THOUSAND ONE HUNDRED SIXTY RUPEES ONLY", gst.AmountInWords(d("132160")))
	assert.Equal(t, "TWO HUNDRED THIRTY SIX RUPEES AND FIFTY PAISE ONLY", gst.AmountInWords(d("236.50")))
	assert.Equal(t, "ZERO RUPEES AND FIVE PAISE ONLY", gst.AmountInWords(d("0.05")))
	assert.Equal(t, "ZERO RUPEES ONLY", gst.AmountInWords(d("0")))
	assert.Equal(t, "ONE RUPEES ONLY", gst.AmountInWords(d("0.999")), "se redondea a paise antes de convertir")
}
