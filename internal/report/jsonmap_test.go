package report

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapitalizeKeysNestedTree(t *testing.T) {
	input := map[string]any{
		"policyNumber": "P-001",
		"insured": map[string]any{
			"firstName": "Ada",
			"address": map[string]any{
				"streetName": "Collins St",
			},
		},
		"items": []any{
			map[string]any{"itemCode": "A"},
			map[string]any{"itemCode": "B"},
		},
		"AlreadyUpper": true,
	}

	out, ok := CapitalizeKeys(input).(map[string]any)
	require.True(t, ok)
	require.Equal(t, "P-001", out["PolicyNumber"])

	insured := out["Insured"].(map[string]any)
	require.Equal(t, "Ada", insured["FirstName"])
	address := insured["Address"].(map[string]any)
	require.Equal(t, "Collins St", address["StreetName"])

	items := out["Items"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].(map[string]any)["ItemCode"])

	require.Equal(t, true, out["AlreadyUpper"])

	// The input tree is not mutated.
	require.Contains(t, input, "policyNumber")
	require.NotContains(t, input, "PolicyNumber")
}

func TestCapitalizeKeysScalarsPassThrough(t *testing.T) {
	require.Equal(t, "x", CapitalizeKeys("x"))
	require.Equal(t, 4.5, CapitalizeKeys(4.5))
	require.Nil(t, CapitalizeKeys(nil))
}

func TestCalculationDataPrefersJsonSubDocument(t *testing.T) {
	raw := []byte(`{"state":"bindingComplete","Json":{"basePremium":100.5,"total":{"payable":110.55}}}`)
	calc := newCalculationData(raw)
	require.NotNil(t, calc)

	data := calc.Data()
	require.NotNil(t, data)
	require.Equal(t, 100.5, data["BasePremium"])
	total := data["Total"].(map[string]any)
	require.Equal(t, 110.55, total["Payable"])
	// The outer envelope is not exposed.
	require.NotContains(t, data, "State")
}

func TestCalculationDataWithoutSubDocument(t *testing.T) {
	calc := newCalculationData([]byte(`{"basePremium":10}`))
	data := calc.Data()
	require.Equal(t, float64(10), data["BasePremium"])
}

func TestCalculationDataMissingOrMalformed(t *testing.T) {
	require.Nil(t, newCalculationData(nil))
	require.Nil(t, newCalculationData([]byte("   ")))

	var absent *calculationData
	require.Nil(t, absent.Data())

	malformed := newCalculationData([]byte(`{"broken`))
	require.Nil(t, malformed.Data())
}

func TestCalculationDataMemoizes(t *testing.T) {
	calc := newCalculationData([]byte(`{"a":1}`))
	first := calc.Data()
	second := calc.Data()
	require.NotNil(t, first)
	// Same cached map on every access.
	require.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			_ = calc.Data()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
