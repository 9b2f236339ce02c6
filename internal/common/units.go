package common

import (
	"fmt"
	"math/big"
	"strings"
)

// ToBaseUnits converts a human decimal amount into a token's smallest
// integer unit at the given precision.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}

	if r.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", amount)
	}

	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(exp))

	if !r.IsInt() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}

	return new(big.Int).Set(r.Num()), nil
}

// FromBaseUnits renders an integer token amount as a decimal string at the
// given precision, with trailing zeros trimmed.
func FromBaseUnits(units *big.Int, decimals int) string {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(units), exp, new(big.Int))

	sign := ""
	if units.Sign() < 0 {
		sign = "-"
	}

	if frac.Sign() == 0 {
		return fmt.Sprintf("%s%s", sign, whole.String())
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%0*s", decimals, frac.String()), "0")

	return fmt.Sprintf("%s%s.%s", sign, whole.String(), fracStr)
}
