package feature

import (
	"github.com/kavach/whitebox/pkg/record"
)

// Smoothing is added to ratio denominators so a zero income or loan
// amount never divides by zero.
const Smoothing = 1.0

// Derived finance features.
const (
	LoanToIncomeRatio = "loan_to_income_ratio"
	TotalAssets       = "total_assets"
	AssetToLoanRatio  = "asset_to_loan_ratio"
)

// Derived returns the names Engineer adds for the domain.
func Derived(d record.Domain) []string {
	if d == record.Finance {
		return []string{LoanToIncomeRatio, TotalAssets, AssetToLoanRatio}
	}
	return nil
}

// Engineer returns a copy of rec with the derived features of the domain
// added. Derived values are always recomputed from raw fields, so
// engineering an engineered record yields the same record.
func Engineer(rec record.Record, d record.Domain) (record.Record, error) {
	switch d {
	case record.Finance:
		return engineerFinance(rec)
	case record.Health:
		return rec.Clone(), nil
	default:
		return nil, record.NewSchemaError(d, "", "unknown domain")
	}
}

func engineerFinance(rec record.Record) (record.Record, error) {
	income, err := required(rec, record.IncomeAnnum)
	if err != nil {
		return nil, err
	}

	loan, err := required(rec, record.LoanAmount)
	if err != nil {
		return nil, err
	}

	var assets float64
	for _, f := range record.AssetFields {
		if !rec.Has(f) {
			continue
		}
		v, ok := rec.Float(f)
		if !ok {
			return nil, record.NewSchemaError(record.Finance, f, "not numeric")
		}
		assets += v
	}

	out := rec.Clone()
	out[LoanToIncomeRatio] = loan / (income + Smoothing)
	out[TotalAssets] = assets
	out[AssetToLoanRatio] = assets / (loan + Smoothing)
	return out, nil
}

func required(rec record.Record, field string) (float64, error) {
	if !rec.Has(field) {
		return 0, record.NewSchemaError(record.Finance, field, "required for feature engineering")
	}
	v, ok := rec.Float(field)
	if !ok {
		return 0, record.NewSchemaError(record.Finance, field, "not numeric")
	}
	return v, nil
}
