// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxMoneyDecimals is the most decimals FormatMoney will render.
const MaxMoneyDecimals = 9

// FormatMoney renders v with comma thousands separators and exactly decimals
// fractional digits, rounding half away from zero. decimals is clamped to
// [0, MaxMoneyDecimals].
func FormatMoney(v float64, decimals int) string {
	decimals = max(0, min(decimals, MaxMoneyDecimals))
	if math.Abs(v) < math.MaxInt64 {
		return humanize.FormatFloat("#,###."+strings.Repeat("#", decimals), v)
	}
	return formatBigMoney(v, decimals)
}

// formatBigMoney handles values whose integer part does not fit an int64.
// Such floats have no fractional part, so the decimals are all zero.
func formatBigMoney(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	whole, _ := new(big.Float).SetFloat64(v).Int(nil)
	out := humanize.BigComma(whole)
	if decimals > 0 {
		out += "." + strings.Repeat("0", decimals)
	}
	return out
}
