package session

import "strconv"

// ComputeTotalPrice derives the total price from the three raw inputs:
// unitPrice*quantity + deliveryCharges, formatted with exactly two
// fractional digits. The inputs are parsed with locale-independent
// strconv parsing; quantity must be an integer. If any input does not
// parse, ok is false and the total must be treated as cleared, never
// left at a stale value.
func ComputeTotalPrice(unitPrice, quantity, deliveryCharges string) (total string, ok bool) {
	up, err := strconv.ParseFloat(unitPrice, 64)

	if err != nil {
		return "", false
	}

	qty, err := strconv.Atoi(quantity)

	if err != nil {
		return "", false
	}

	dc, err := strconv.ParseFloat(deliveryCharges, 64)

	if err != nil {
		return "", false
	}

	return strconv.FormatFloat(up*float64(qty)+dc, 'f', 2, 64), true
}
