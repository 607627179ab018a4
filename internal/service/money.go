package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// All amounts are whole VND held in int64, so the arithmetic below is
// exact.  VAT is a fixed 10% of the (possibly discounted) subtotal.
const vatRatePercent = 10

// vatOf returns 10% of the subtotal, rounding half up.  Every price in
// the menu is a multiple of 10 VND, so the rounding branch is never
// taken in practice but keeps the math total.
func vatOf(subtotal int64) int64 {
	return (subtotal*vatRatePercent + 50) / 100
}

// Discount is a checkout adjustment: either a percentage of the
// aggregated subtotal or a fixed amount, never both.
type Discount struct {
	Percent int64 // 0-100
	Amount  int64 // VND
}

// validate rejects discounts that set both fields or carry values
// outside their range.  A nil discount is always valid.
func (d *Discount) validate() error {
	if d == nil {
		return nil
	}
	if d.Percent != 0 && d.Amount != 0 {
		return ErrInvalidDiscount
	}
	if d.Percent < 0 || d.Percent > 100 || d.Amount < 0 {
		return ErrInvalidDiscount
	}
	return nil
}

// applyTo returns the discounted base, floored at zero.
func (d *Discount) applyTo(subtotal int64) int64 {
	if d == nil {
		return subtotal
	}
	base := subtotal
	if d.Percent > 0 {
		base = subtotal - (subtotal*d.Percent+50)/100
	} else if d.Amount > 0 {
		base = subtotal - d.Amount
	}
	if base < 0 {
		base = 0
	}
	return base
}

// apportion splits amount across weights in proportion, flooring each
// share and folding the leftover into the last non-zero weight so the
// shares always sum to amount exactly.  Zero amount or all-zero
// weights yield all-zero shares.
func apportion(amount int64, weights []int64) []int64 {
	shares := make([]int64, len(weights))
	var total int64
	for _, w := range weights {
		total += w
	}
	if amount == 0 || total == 0 {
		return shares
	}
	var used int64
	last := -1
	for i, w := range weights {
		shares[i] = amount * w / total
		used += shares[i]
		if w > 0 {
			last = i
		}
	}
	shares[last] += amount - used
	return shares
}

// newDocumentNumber builds a time-ordered, human-displayable number
// such as "ORD-20260827-154501-7K3Q".  The random tail keeps numbers
// unique without requiring them to be strictly sequential.
func newDocumentNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102-150405"), randAlnum(4))
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randAlnum returns n cryptographically random uppercase alphanumeric
// characters.
func randAlnum(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; fall back to a time-derived index rather than
			// panicking mid-request.
			out[i] = codeAlphabet[time.Now().UnixNano()%int64(len(codeAlphabet))]
			continue
		}
		out[i] = codeAlphabet[idx.Int64()]
	}
	return string(out)
}
