package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func claimRows(rows ...ClaimRow) []SummarizableRow {
	out := make([]SummarizableRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out
}

func TestSummarizeMonthlyWorkedExample(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$120.50", CreatedDate: "05/02/2024"},
		ClaimRow{Status: "Incomplete", Amount: "$80.00", CreatedDate: "05/10/2024"},
	)

	buckets, err := Summarize(rows, GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	bucket := buckets[0]
	require.Equal(t, "May 2024", bucket.Label)
	require.Equal(t, 1, bucket.TotalComplete)
	require.Equal(t, 1, bucket.TotalIncomplete)
	require.Equal(t, 2, bucket.TotalRecords)
	require.Equal(t, "$120.50", bucket.TotalAmountComplete)
	require.Equal(t, "$200.50", bucket.TotalAmountAll)
}

func TestSummarizeEmptyRowsYieldsEmptyList(t *testing.T) {
	buckets, err := Summarize(nil, GranularityDaily)
	require.NoError(t, err)
	require.Empty(t, buckets)
}

func TestSummarizeExcludesUnrecognisedStatuses(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$10.00", CreatedDate: "03/01/2024"},
		ClaimRow{Status: "Pending", Amount: "$999.00", CreatedDate: "03/01/2024"},
		ClaimRow{Status: "incomplete", Amount: "$5.00", CreatedDate: "03/01/2024"},
	)

	buckets, err := Summarize(rows, GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, 1, buckets[0].TotalComplete)
	require.Equal(t, 1, buckets[0].TotalIncomplete)
	// The pending row is excluded from counts and totals.
	require.Equal(t, 2, buckets[0].TotalRecords)
	require.Equal(t, "$15.00", buckets[0].TotalAmountAll)
}

func TestSummarizeDailyAscendingByParsedDate(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "12/30/2024"},
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "01/05/2024"},
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "11/20/2024"},
	)

	buckets, err := Summarize(rows, GranularityDaily)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	require.Equal(t, "01/05/2024", buckets[0].Label)
	require.Equal(t, "11/20/2024", buckets[1].Label)
	require.Equal(t, "12/30/2024", buckets[2].Label)
}

func TestSummarizeWeeklyLexicographicLabels(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "03/15/2024"},
		ClaimRow{Status: "Complete", Amount: "$2.00", CreatedDate: "01/03/2024"},
		ClaimRow{Status: "Complete", Amount: "$3.00", CreatedDate: "03/14/2024"},
	)

	buckets, err := Summarize(rows, GranularityWeekly)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "Week 01", buckets[0].Label)
	require.Equal(t, "Week 11", buckets[1].Label)
	// 03/14 and 03/15 share ISO week 11.
	require.Equal(t, "$4.00", buckets[1].TotalAmountAll)
}

func TestSummarizeMonthlyFirstSeenOrder(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "06/01/2024"},
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "02/01/2024"},
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "06/15/2024"},
	)

	buckets, err := Summarize(rows, GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "June 2024", buckets[0].Label)
	require.Equal(t, "February 2024", buckets[1].Label)
}

func TestSummarizePartitionConservation(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1,200.25", CreatedDate: "07/01/2024"},
		ClaimRow{Status: "COMPLETE", Amount: "$0.75", CreatedDate: "07/02/2024"},
		ClaimRow{Status: "Incomplete", Amount: "$99.00", CreatedDate: "07/03/2024"},
		ClaimRow{Status: "Declined", Amount: "$1.00", CreatedDate: "07/04/2024"},
	)

	buckets, err := Summarize(rows, GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	bucket := buckets[0]
	require.Equal(t, bucket.TotalRecords, bucket.TotalComplete+bucket.TotalIncomplete)

	complete, err := ParseCents(bucket.TotalAmountComplete)
	require.NoError(t, err)
	all, err := ParseCents(bucket.TotalAmountAll)
	require.NoError(t, err)
	require.Equal(t, int64(120100), complete)
	require.Equal(t, int64(130000), all)
}

func TestSummarizeMalformedAmountIsFatal(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$not-a-number", CreatedDate: "07/01/2024"},
	)

	_, err := Summarize(rows, GranularityMonthly)
	require.ErrorIs(t, err, ErrMalformedAmount)
}

func TestSummarizeMalformedDateIsFatal(t *testing.T) {
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "2024-07-01"},
	)

	_, err := Summarize(rows, GranularityDaily)
	require.ErrorIs(t, err, ErrMalformedDate)
}

func TestSummarizeWeeklyMergesAcrossYearBoundary(t *testing.T) {
	// A window spanning a year boundary merges same-numbered weeks; the
	// label carries no year qualifier.
	rows := claimRows(
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "01/05/2023"},
		ClaimRow{Status: "Complete", Amount: "$1.00", CreatedDate: "01/03/2024"},
	)

	buckets, err := Summarize(rows, GranularityWeekly)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, "Week 01", buckets[0].Label)
	require.Equal(t, 2, buckets[0].TotalComplete)
}
