package explain

import (
	"testing"

	"github.com/kavach/whitebox/pkg/feature"
	"github.com/kavach/whitebox/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainFeature_Materiality(t *testing.T) {
	n := NewNarrator()
	tests := []struct {
		name   string
		domain record.Domain
		c      float64
		shown  bool
	}{
		{"finance below", record.Finance, 0.04, false},
		{"finance negative below", record.Finance, -0.04, false},
		{"finance above", record.Finance, 0.06, true},
		{"finance at threshold", record.Finance, 0.05, true},
		{"health below", record.Health, 99, false},
		{"health negative below", record.Health, -99, false},
		{"health above", record.Health, 101, true},
		{"health negative above", record.Health, -101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := n.ExplainFeature(record.Age, tt.c, 42, tt.domain)
			assert.Equal(t, tt.shown, ok)
		})
	}
}

func TestExplainFeature_Sentiment(t *testing.T) {
	n := NewNarrator()

	s, ok := n.ExplainFeature(record.CibilScore, 0.2, 760, record.Finance)
	require.True(t, ok)
	assert.Equal(t, "Your credit score (760) shows your repayment reliability. This helped your approval.", s.Text)
	assert.Equal(t, Favorable, s.Effect)

	s, ok = n.ExplainFeature(record.CibilScore, -0.2, 540, record.Finance)
	require.True(t, ok)
	assert.Contains(t, s.Text, "This reduced approval chances.")
	assert.Equal(t, Adverse, s.Effect)

	s, ok = n.ExplainFeature(record.BMI, -150, 26.3, record.Health)
	require.True(t, ok)
	assert.Equal(t, "Your BMI (26.3) reflects fitness level. This reduced premium.", s.Text)
	assert.Equal(t, Favorable, s.Effect)

	s, ok = n.ExplainFeature(record.BMI, 150, 31, record.Health)
	require.True(t, ok)
	assert.Contains(t, s.Text, "This increased premium.")
}

func TestExplainFeature_Templates(t *testing.T) {
	n := NewNarrator(WithCurrency("$"))
	assert.Equal(t, "$", n.Currency())

	tests := []struct {
		name    string
		feature string
		raw     any
		domain  record.Domain
		want    string
	}{
		{"money", record.LoanAmount, 250000, record.Finance, "The requested loan ($250,000) impacts risk evaluation"},
		{"income", record.IncomeAnnum, 850000, record.Finance, "Your yearly income ($850,000) affects your repayment capacity"},
		{"ratio", feature.LoanToIncomeRatio, 0.2941, record.Finance, "Your loan is 0.29× your income"},
		{"asset ratio", feature.AssetToLoanRatio, 6.2, record.Finance, "Your assets cover 6.20× of the loan"},
		{"dependents", record.NoOfDependents, 2, record.Finance, "You support 2 dependents"},
		{"text value", record.Education, "Graduate", record.Finance, "Your education (Graduate) was considered"},
		{"raw fallback", record.IncomeAnnum, "n/a", record.Finance, "Your yearly income (n/a) affects your repayment capacity"},
		{"default", "residential_assets_value", 1200000, record.Finance, "Your residential assets value was evaluated"},
		{"no value", record.Smoker, 0, record.Health, "Smoking status influences medical costs"},
		{"weight", record.Weight, 70, record.Health, "Body weight (70 kg) affects premiums"},
		{"health default", record.City, "Boston", record.Health, "Your city was evaluated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := n.ExplainFeature(tt.feature, 500, tt.raw, tt.domain)
			require.True(t, ok)
			assert.Contains(t, s.Text, tt.want+". This ")
			assert.False(t, s.Interaction)
		})
	}
}

func TestExplainFeature_Interaction(t *testing.T) {
	n := NewNarrator()
	s, ok := n.ExplainFeature("cibil_score & loan_term", -0.3, nil, record.Finance)
	require.True(t, ok)
	assert.True(t, s.Interaction)
	assert.Equal(t, "Combined effect of cibil score and loan term influenced the outcome.", s.Text)
	assert.Equal(t, "• Combined effect of cibil score and loan term influenced the outcome.", s.String())

	_, ok = n.ExplainFeature("age & bmi", 50, nil, record.Health)
	assert.False(t, ok)
}

func TestExplainFeature_UnknownDomain(t *testing.T) {
	_, ok := NewNarrator().ExplainFeature(record.Age, 1000, 1, record.Domain("auto"))
	assert.False(t, ok)
}

func TestStatement_String(t *testing.T) {
	s := Statement{Text: "Your BMI (26.3) reflects fitness level. This reduced premium."}
	assert.Equal(t, "• Your BMI (26.3) reflects fitness level. This reduced premium.", s.String())
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsInteraction("a & b"))
	assert.True(t, IsInteraction("a&b"))
	assert.False(t, IsInteraction("a_b"))
	assert.Equal(t, "a b and c", Readable("a_b&c"))
	assert.Equal(t, "loan amount", Humanize("loan_amount"))
	assert.Equal(t, FinanceThreshold, Threshold(record.Finance))
	assert.Equal(t, HealthThreshold, Threshold(record.Health))
	assert.Equal(t, Adverse, EffectOf(record.Finance, 0))
	assert.Equal(t, Adverse, EffectOf(record.Health, 0))
}
