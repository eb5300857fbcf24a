package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Samples(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(Finance, SampleFinance()))
	assert.NoError(t, v.Validate(Health, SampleHealth()))
}

func TestValidator_MissingRequired(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	r := SampleFinance()
	delete(r, LoanAmount)

	err = v.Validate(Finance, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, LoanAmount, se.Field)
	assert.Equal(t, Finance, se.Domain)
}

func TestValidator_WrongType(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(Health, SampleHealth().With(BMI, "heavy"))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, BMI, se.Field)
}

func TestValidator_AllowsNullsAndExtras(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	r := SampleFinance().With(CibilScore, nil).With("loan_id", 17)
	assert.NoError(t, v.Validate(Finance, r))
	assert.NoError(t, v.Validate(Health, Record{Smoker: true, Age: int16(30)}))
}

func TestValidator_UnknownDomain(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.ErrorIs(t, v.Validate(Domain("auto"), Record{}), ErrSchemaMismatch)
}

func TestValidator_MissingAllRequired(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	r := SampleFinance()
	delete(r, IncomeAnnum)
	delete(r, LoanAmount)

	var se *SchemaError
	require.ErrorAs(t, v.Validate(Finance, r), &se)
	assert.Contains(t, []string{IncomeAnnum, LoanAmount}, se.Field)
}

func TestQuotedField(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"missing properties: 'loan_amount'", LoanAmount},
		{"missing properties: 'income_annum', 'loan_amount'", IncomeAnnum},
		{`additionalProperties "color" not allowed`, "color"},
		{"expected number, but got string", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quotedField(tt.msg), tt.msg)
	}
}
