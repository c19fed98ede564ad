package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "shanghai prefix", code: "sh.600000", want: "600000"},
		{name: "shenzhen prefix", code: "sz.000001", want: "000001"},
		{name: "no separator", code: "AAPL", want: "AAPL"},
		{name: "empty", code: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SymbolFromCode(tt.code))
		})
	}
}
