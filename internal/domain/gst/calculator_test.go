package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyomerp/vyom-api/internal/domain/gst"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_IntraStateSplitsCGSTSGST(t *testing.T) {
	b, err := gst.Compute(d("1000"), d("18"), "Karnataka", "Karnataka")
	require.NoError(t, err)

	assert.True(t, b.TotalTax.Equal(d("180")), "total tax should be 18%% of 1000, got %s", b.TotalTax)
	assert.True(t, b.CGST.Equal(d("90")), "CGST should be half of total tax")
	assert.True(t, b.SGST.Equal(d("90")), "SGST should be half of total tax")
	assert.True(t, b.IGST.IsZero(), "IGST must be zero for intra-state supply")
	assert.True(t, b.TotalAmount.Equal(d("1180")))
}

func TestCompute_InterStateChargesIGST(t *testing.T) {
	b, err := gst.Compute(d("1000"), d("18"), "Maharashtra", "Karnataka")
	require.NoError(t, err)

	assert.True(t, b.IGST.Equal(d("180")), "IGST should carry the full tax inter-state")
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.TotalAmount.Equal(d("1180")))
}

func TestCompute_StateComparisonIsCaseInsensitive(t *testing.T) {
	b, err := gst.Compute(d("500"), d("5"), "kerala", "KERALA")
	require.NoError(t, err)
	assert.True(t, b.IGST.IsZero(), "case difference alone must not make the supply inter-state")
	assert.True(t, b.CGST.Equal(d("12.50")))
	assert.True(t, b.SGST.Equal(d("12.50")))
}

// Splitting an odd total in half rounds each side independently; the pair may
// drift from the total by at most one paisa.
func TestCompute_HalfRoundingToleranceIsOnePaisa(t *testing.T) {
	b, err := gst.Compute(d("100.17"), d("5"), "Goa", "Goa")
	require.NoError(t, err)

	diff := b.CGST.Add(b.SGST).Sub(b.TotalTax).Abs()
	assert.True(t, diff.LessThanOrEqual(d("0.01")),
		"CGST+SGST may differ from TotalTax by at most 0.01, diff=%s", diff)
}

func TestCompute_ZeroRate(t *testing.T) {
	b, err := gst.Compute(d("250"), d("0"), "Punjab", "Punjab")
	require.NoError(t, err)
	assert.True(t, b.TotalTax.IsZero())
	assert.True(t, b.TotalAmount.Equal(d("250")))
}

func TestCompute_AllSlabs(t *testing.T) {
	for _, rate := range []string{"0", "5", "12", "18", "28"} {
		b, err := gst.Compute(d("1000"), d(rate), "Delhi", "Kerala")
		require.NoError(t, err, "slab %s must be accepted", rate)
		want := d("1000").Mul(d(rate)).Div(d("100")).Round(2)
		assert.True(t, b.TotalTax.Equal(want), "slab %s: want %s got %s", rate, want, b.TotalTax)
	}
}

func TestCompute_Validation(t *testing.T) {
	_, err := gst.Compute(d("100"), d("17"), "Goa", "Goa")
	assert.ErrorIs(t, err, gst.ErrInvalidRate, "17 is not a GST slab")

	_, err = gst.Compute(d("-1"), d("18"), "Goa", "Goa")
	assert.ErrorIs(t, err, gst.ErrInvalidAmount)

	_, err = gst.Compute(d("100"), d("18"), "", "Goa")
	assert.ErrorIs(t, err, gst.ErrMissingState)

	_, err = gst.Compute(d("100"), d("18"), "Goa", "  ")
	assert.ErrorIs(t, err, gst.ErrMissingState)
}

func TestCompute_Deterministic(t *testing.T) {
	b1, err := gst.Compute(d("999.99"), d("28"), "Tamil Nadu", "Kerala")
	require.NoError(t, err)
	b2, err := gst.Compute(d("999.99"), d("28"), "Tamil Nadu", "Kerala")
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "same input must always produce the same breakdown")
}

func TestSummarize_SumsElementwise(t *testing.T) {
	b1, _ := gst.Compute(d("1000"), d("18"), "Karnataka", "Karnataka")
	b2, _ := gst.Compute(d("500"), d("5"), "Karnataka", "Karnataka")
	b3, _ := gst.Compute(d("200"), d("12"), "Kerala", "Karnataka")

	total := gst.Summarize([]*gst.Breakdown{b1, b2, b3})

	assert.True(t, total.TaxableAmount.Equal(d("1700")))
	assert.True(t, total.CGST.Equal(d("102.50")), "CGST 90 + 12.50")
	assert.True(t, total.SGST.Equal(d("102.50")))
	assert.True(t, total.IGST.Equal(d("24")), "only the inter-state line contributes IGST")
	assert.True(t, total.TotalTax.Equal(d("229")))
	assert.True(t, total.TotalAmount.Equal(d("1929")))
}

func TestSummarize_OrderIndependent(t *testing.T) {
	b1, _ := gst.Compute(d("33.33"), d("18"), "Goa", "Goa")
	b2, _ := gst.Compute(d("66.67"), d("28"), "Goa", "Delhi")
	b3, _ := gst.Compute(d("10.01"), d("5"), "Goa", "Goa")

	t1 := gst.Summarize([]*gst.Breakdown{b1, b2, b3})
	t2 := gst.Summarize([]*gst.Breakdown{b3, b1, b2})

	assert.True(t, t1.TotalTax.Equal(t2.TotalTax))
	assert.True(t, t1.TotalAmount.Equal(t2.TotalAmount))
	assert.True(t, t1.CGST.Equal(t2.CGST))
	assert.True(t, t1.IGST.Equal(t2.IGST))
}

func TestSummarize_Empty(t *testing.T) {
	total := gst.Summarize(nil)
	assert.True(t, total.TotalTax.IsZero())
	assert.True(t, total.TotalAmount.IsZero())
}
