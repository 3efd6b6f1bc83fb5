package report

// Data graph assembly: the renderer binds a tree of named collections whose
// leaves are the flat maps produced by each row's TemplateMap.

func rowMaps[R Row](rows []R) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.TemplateMap())
	}
	return out
}

func bucketMaps(buckets []SummaryBucket) []map[string]any {
	out := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.TemplateMap())
	}
	return out
}

func asSummarizable[R SummarizableRow](rows []R) []SummarizableRow {
	out := make([]SummarizableRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out
}

// buildDataGraph assembles the full model bound to the body template: the
// four top-level collections plus nine derived summary collections (three
// granularities for each record kind that supports summaries).
func buildDataGraph(
	transactions []PolicyTransactionRow,
	quotes []QuoteRow,
	claims []ClaimRow,
	emails []EmailRow,
) (map[string]any, error) {
	model := map[string]any{
		"PolicyTransactions": rowMaps(transactions),
		"Quotes":             rowMaps(quotes),
		"Claims":             rowMaps(claims),
		"Emails":             rowMaps(emails),
	}

	summaries := []struct {
		prefix string
		rows   []SummarizableRow
	}{
		{"PolicyTransactions", asSummarizable(transactions)},
		{"Quotes", asSummarizable(quotes)},
		{"Claims", asSummarizable(claims)},
	}
	for _, s := range summaries {
		for _, granularity := range Granularities {
			buckets, err := Summarize(s.rows, granularity)
			if err != nil {
				return nil, err
			}
			model[s.prefix+string(granularity)+"Summary"] = bucketMaps(buckets)
		}
	}
	return model, nil
}
