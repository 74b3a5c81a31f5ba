// Package shared holds the pricing arithmetic used by every commercial
// document. All monetary amounts are rounded to 2 decimals, and document
// totals are sums of already-rounded line amounts so the same lines always
// reproduce the same totals to the cent.
package shared

import "math"

// DefaultGSTPercent applies when neither the line nor the document carries a
// GST rate.
const DefaultGSTPercent = 18.0

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ResolveTaxPercent picks the effective GST rate: explicit line value, then
// the document default, then DefaultGSTPercent.
func ResolveTaxPercent(line, docDefault *float64) float64 {
	if line != nil {
		return *line
	}
	if docDefault != nil {
		return *docDefault
	}
	return DefaultGSTPercent
}

// MarginFactor converts a margin percent into the multiplier applied to a
// base rate, e.g. 10 -> 1.10.
func MarginFactor(marginPercent float64) float64 {
	return 1 + marginPercent/100
}

// LineInput is the raw material for one document line.
type LineInput struct {
	ProductID   *int64
	Description string
	HSNCode     string
	Quantity    float64
	UnitRate    float64
	GSTPercent  *float64
	LineOrder   int
}

// LineOptions carries the target document's conventions. ApplyMargin is set
// only where a price first enters a margin-bearing document; derived
// documents reuse the already-margined rate and must leave it false.
type LineOptions struct {
	ApplyMargin       bool
	MarginPercent     float64
	DefaultGSTPercent *float64
	SplitGST          bool
}

// Amounts is the recomputed money for one line.
type Amounts struct {
	EffectiveRate float64
	TaxPercent    float64
	BaseAmount    float64
	TaxAmount     float64
	CGSTAmount    float64
	SGSTAmount    float64
	TotalAmount   float64
}

// ComputeLine derives all monetary fields for a line under the given
// conventions.
func ComputeLine(in LineInput, opts LineOptions) Amounts {
	taxPercent := ResolveTaxPercent(in.GSTPercent, opts.DefaultGSTPercent)

	rate := in.UnitRate
	if opts.ApplyMargin {
		rate = in.UnitRate * MarginFactor(opts.MarginPercent)
	}

	base := Round2(rate * in.Quantity)
	tax := Round2(base * taxPercent / 100)

	a := Amounts{
		EffectiveRate: rate,
		TaxPercent:    taxPercent,
		BaseAmount:    base,
		TaxAmount:     tax,
		TotalAmount:   base + tax,
	}
	if opts.SplitGST {
		a.CGSTAmount, a.SGSTAmount = SplitGST(tax)
	}
	return a
}

// SplitGST halves an intra-state tax amount into its CGST and SGST legs,
// rounding each leg independently. The legs may not sum back to the input
// when the half lands on a third decimal; that is accepted domain behaviour.
func SplitGST(tax float64) (cgst, sgst float64) {
	half := tax / 2
	return Round2(half), Round2(half)
}

// Totals sums already-rounded line amounts into document totals.
func Totals(lines []Amounts) (subtotal, taxTotal, grandTotal float64) {
	for _, l := range lines {
		subtotal += l.BaseAmount
		taxTotal += l.TaxAmount
		grandTotal += l.TotalAmount
	}
	return Round2(subtotal), Round2(taxTotal), Round2(grandTotal)
}
