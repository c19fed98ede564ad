package utils

import "strings"

// SymbolFromCode extracts the bare ticker from an exchange-qualified code,
// e.g. "sh.600000" -> "600000". Codes without a separator are returned as is.
func SymbolFromCode(code string) string {
	if idx := strings.Index(code, "."); idx >= 0 {
		return code[idx+1:]
	}
	return code
}
