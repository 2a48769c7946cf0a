package docnumber_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/docnumber"
)

func TestNew_Formato(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, docnumber.New(docnumber.OrderPrefix))
	}
}

func TestNew_NoRepiteEnRafaga(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := docnumber.New(docnumber.PaymentPrefix)
		assert.False(t, seen[n], "número repetido: %s", n)
		seen[n] = true
	}
}
