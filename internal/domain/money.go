package domain

// Amounts are int64 in the smallest payment unit (wei-style base units for
// the native currency, token base units otherwise). All arithmetic that could
// leave the int64 range is checked explicitly; nothing is allowed to wrap.

const BpsDenominator = 10000

// MulChecked returns a*b or ErrOverflow. Negative inputs are rejected since
// no amount in the system is ever negative.
func MulChecked(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrOverflow
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a {
		return 0, ErrOverflow
	}
	return product, nil
}

// AddChecked returns a+b or ErrOverflow.
func AddChecked(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrOverflow
	}
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// BpsShare returns amount*bps/10000, rounded down. The multiply is split so
// wei-scale amounts do not overflow the intermediate product:
// floor(a*b/d) == floor(a/d)*b + floor((a%d)*b/d) for d == 10000.
func BpsShare(amount int64, bps uint16) (int64, error) {
	if amount < 0 {
		return 0, ErrOverflow
	}
	whole, err := MulChecked(amount/BpsDenominator, int64(bps))
	if err != nil {
		return 0, err
	}
	frac := (amount % BpsDenominator) * int64(bps) / BpsDenominator
	return AddChecked(whole, frac)
}

// SplitFee divides rent into the platform fee and the owner's proceeds.
// The fee rounds down; the integer-division remainder always goes to the
// owner, so fee+proceeds == rent exactly.
func SplitFee(rent int64, feeBps uint16) (fee, proceeds int64, err error) {
	fee, err = BpsShare(rent, feeBps)
	if err != nil {
		return 0, 0, err
	}
	return fee, rent - fee, nil
}

// ComputeDeposit returns the deposit owed for a rent amount: rent*depositBps
// capped at rent*depositCapBps, both in basis points. Computed once at rental
// creation and never recomputed.
func ComputeDeposit(rent int64, depositBps, depositCapBps uint16) (int64, error) {
	deposit, err := BpsShare(rent, depositBps)
	if err != nil {
		return 0, err
	}
	ceiling, err := BpsShare(rent, depositCapBps)
	if err != nil {
		return 0, err
	}
	if deposit > ceiling {
		deposit = ceiling
	}
	return deposit, nil
}
