package worktodo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryString(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name: "Mersenne cofactor PRP",
			entry: Entry{Kind: KindPRP, K: 1, B: 2, Exponent: 11, C: -1, KnownFactors: []string{"23"},
				Options: PrimalityOptions{ResidueType: ResidueTypeCofactor}},
			want: "PRP on 1*2^11-1 (Mersenne) with 1 known factors, residueType=5",
		},
		{
			name: "Wagstaff PRP",
			entry: Entry{Kind: KindPRP, K: 1, B: 2, Exponent: 89, C: 1, KnownFactors: []string{"3"},
				Options: PrimalityOptions{ResidueType: ResidueTypeDefault}},
			want: "PRP on 1*2^89+1 (Wagstaff) with 1 known factors, residueType=1",
		},
		{
			name: "P-1 bounds",
			entry: Entry{Kind: KindPM1, K: 1, B: 2, Exponent: 1277, C: -1,
				Options: FactoringOptions{B1: 1000, B2: 50000}},
			want: "P-1 on 1*2^1277-1 (Mersenne), B1=1000, B2=50000",
		},
		{
			name: "LL with assignment ID",
			entry: Entry{Kind: KindLL, K: 1, B: 2, Exponent: 1277, C: -1, AID: testAID,
				Options: PrimalityOptions{ResidueType: ResidueTypeDefault}},
			want: "LL on 1*2^1277-1 (Mersenne), residueType=1, AID=" + testAID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "PRP", KindPRP.String())
	assert.Equal(t, "LL", KindLL.String())
	assert.Equal(t, "P-1", KindPM1.String())
	assert.Equal(t, "Unsupported", KindUnsupported.String())
	assert.Equal(t, "Unsupported", Kind(42).String())
}

func TestWagstaffNeedsFactorThree(t *testing.T) {
	e := Entry{K: 1, B: 2, Exponent: 89, C: 1}
	assert.False(t, e.IsWagstaff(), "no known factors")

	e.KnownFactors = []string{"179"}
	assert.False(t, e.IsWagstaff(), "first factor is not 3")

	e.KnownFactors = []string{"3", "179"}
	assert.True(t, e.IsWagstaff())
	assert.False(t, e.IsMersenne())
}

func TestEntryJSON(t *testing.T) {
	e, err := NewDecoder(WithValidator(acceptAll)).Decode("Pminus1=1,2,1277,-1,1000,50000,70")
	require.NoError(t, err)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "P-1", out["kind"])
	assert.EqualValues(t, 1277, out["n"])
	assert.EqualValues(t, -1, out["c"])
	assert.NotContains(t, out, "aid")
	assert.Equal(t, map[string]interface{}{"b1": float64(1000), "b2": float64(50000)}, out["options"])
}
