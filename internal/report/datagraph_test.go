package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var dataGraphKeys = []string{
	"PolicyTransactions", "Quotes", "Claims", "Emails",
	"PolicyTransactionsDailySummary", "PolicyTransactionsWeeklySummary", "PolicyTransactionsMonthlySummary",
	"QuotesDailySummary", "QuotesWeeklySummary", "QuotesMonthlySummary",
	"ClaimsDailySummary", "ClaimsWeeklySummary", "ClaimsMonthlySummary",
}

func TestBuildDataGraphExposesAllCollections(t *testing.T) {
	claim := ClaimRow{
		ClaimNumber: "CLM-1",
		Status:      "Complete",
		Amount:      "$120.50",
		CreatedDate: "05/02/2024",
	}

	model, err := buildDataGraph(nil, nil, []ClaimRow{claim}, nil)
	require.NoError(t, err)
	require.Len(t, model, len(dataGraphKeys))
	for _, key := range dataGraphKeys {
		require.Contains(t, model, key)
	}

	claims, ok := model["Claims"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, claims, 1)
	require.Equal(t, "CLM-1", claims[0]["ClaimNumber"])

	monthly, ok := model["ClaimsMonthlySummary"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, monthly, 1)
	require.Equal(t, "May 2024", monthly[0]["Label"])
	require.Equal(t, 1, monthly[0]["TotalRecords"])
	require.Equal(t, "$120.50", monthly[0]["TotalAmountAll"])

	// Record kinds with no rows still bind as empty collections.
	quotesMonthly, ok := model["QuotesMonthlySummary"].([]map[string]any)
	require.True(t, ok)
	require.Empty(t, quotesMonthly)
	require.Empty(t, model["Emails"])
}

func TestBuildDataGraphSummariesRenderThroughTemplates(t *testing.T) {
	claims := []ClaimRow{
		{ClaimNumber: "CLM-1", Status: "Complete", Amount: "$120.50", CreatedDate: "05/02/2024"},
		{ClaimNumber: "CLM-2", Status: "Incomplete", Amount: "$80.00", CreatedDate: "05/10/2024"},
	}
	model, err := buildDataGraph(nil, nil, claims, nil)
	require.NoError(t, err)

	out, err := NewRenderer().Render(
		"{{range .ClaimsMonthlySummary}}{{.Label}}:{{.TotalComplete}}/{{.TotalIncomplete}}:{{.TotalAmountAll}}{{end}}",
		model,
	)
	require.NoError(t, err)
	require.Equal(t, "May 2024:1/1:$200.50", out)
}

func TestBuildDataGraphPropagatesMalformedAmount(t *testing.T) {
	claim := ClaimRow{Status: "Complete", Amount: "twelve", CreatedDate: "05/02/2024"}
	_, err := buildDataGraph(nil, nil, []ClaimRow{claim}, nil)
	require.ErrorIs(t, err, ErrMalformedAmount)
}
