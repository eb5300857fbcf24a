package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kavach/whitebox/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const financeCSV = `loan_id, no_of_dependents, education, self_employed, income_annum, loan_amount, loan_term, cibil_score, loan_status
1, 2, Graduate, No, 9600000, 29900000, 12, 778, Approved
2, 0, Not Graduate, Yes, 4100000, 12200000, 8, 417, Rejected
3, 3, Graduate, No, 9100000, , 20, 506,  approved
`

func TestRead_Finance(t *testing.T) {
	ds, err := Read(strings.NewReader(financeCSV), "loan_status", record.Finance)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []float64{1, 0, 1}, ds.Labels)
	assert.NotContains(t, ds.Columns, "loan_id")
	assert.NotContains(t, ds.Columns, "loan_status")
	assert.Contains(t, ds.Columns, "cibil_score")

	r := ds.Rows[0]
	assert.Equal(t, 778.0, r["cibil_score"])
	assert.Equal(t, " Graduate", r["education"])
	assert.False(t, ds.Rows[2].Has("loan_amount"))
	_, ok := r["loan_id"]
	assert.False(t, ok)
}

func TestRead_Health(t *testing.T) {
	csv := "age,sex,bmi,claim\n42,female,26.3,13250.5\n30,male,31,9000\n"
	ds, err := Read(strings.NewReader(csv), "claim", record.Health)
	require.NoError(t, err)
	assert.Equal(t, []float64{13250.5, 9000}, ds.Labels)
	assert.Equal(t, []string{"age", "sex", "bmi"}, ds.Columns)

	rows, labels := ds.Subset([]int{1})
	require.Len(t, rows, 1)
	assert.Equal(t, "male", rows[0]["sex"])
	assert.Equal(t, []float64{9000}, labels)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		target string
		domain record.Domain
	}{
		{"no target", "a,b\n1,2\n", "", record.Health},
		{"missing target", "a,b\n1,2\n", "claim", record.Health},
		{"bad label", "a,claim\n1,x\n", "claim", record.Health},
		{"no rows", "a,claim\n", "claim", record.Health},
		{"empty", "", "claim", record.Health},
		{"ragged", "a,claim\n1,2,3\n", "claim", record.Health},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv), tt.target, tt.domain)
			assert.Error(t, err)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "loans.csv")
	require.NoError(t, os.WriteFile(p, []byte(financeCSV), 0600))

	ds, err := LoadCSV(p, "loan_status", record.Finance)
	require.NoError(t, err)
	assert.Equal(t, record.Finance, ds.Domain)
	assert.Equal(t, 3, ds.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "none.csv"), "loan_status", record.Finance)
	assert.Error(t, err)
}
