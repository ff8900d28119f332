package util

import (
	"strconv"
	"strings"
)

// FormatValue renders an output value the way the device displays it: the
// wire value carries two implied fractional digits, so 1000 becomes "10.00",
// and the integer part is grouped with comma thousands separators, so
// 5000000 becomes "50,000.00".
func FormatValue(value uint64) string {
	integerPart := strconv.FormatUint(value/100, 10)
	cents := value % 100

	var builder strings.Builder
	leading := len(integerPart) % 3
	if leading > 0 {
		builder.WriteString(integerPart[:leading])
	}
	for i := leading; i < len(integerPart); i += 3 {
		if builder.Len() > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(integerPart[i : i+3])
	}

	builder.WriteByte('.')
	if cents < 10 {
		builder.WriteByte('0')
	}
	builder.WriteString(strconv.FormatUint(cents, 10))
	return builder.String()
}
