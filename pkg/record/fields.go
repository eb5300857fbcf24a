package record

// Finance input fields.
const (
	NoOfDependents         = "no_of_dependents"
	Education              = "education"
	SelfEmployed           = "self_employed"
	IncomeAnnum            = "income_annum"
	LoanAmount             = "loan_amount"
	LoanTerm               = "loan_term"
	CibilScore             = "cibil_score"
	ResidentialAssetsValue = "residential_assets_value"
	CommercialAssetsValue  = "commercial_assets_value"
	LuxuryAssetsValue      = "luxury_assets_value"
	BankAssetValue         = "bank_asset_value"
)

// Health input fields.
const (
	Age                = "age"
	Sex                = "sex"
	Weight             = "weight"
	BMI                = "bmi"
	HereditaryDiseases = "hereditary_diseases"
	Smoker             = "smoker"
	City               = "city"
	BloodPressure      = "bloodpressure"
	Diabetes           = "diabetes"
	RegularExercise    = "regular_ex"
	JobTitle           = "job_title"
)

var (
	// FinanceFields is the finance input schema in column order.
	FinanceFields = []string{
		NoOfDependents,
		Education,
		SelfEmployed,
		IncomeAnnum,
		LoanAmount,
		LoanTerm,
		CibilScore,
		ResidentialAssetsValue,
		CommercialAssetsValue,
		LuxuryAssetsValue,
		BankAssetValue,
	}

	// HealthFields is the health input schema in column order.
	HealthFields = []string{
		Age,
		Sex,
		Weight,
		BMI,
		HereditaryDiseases,
		NoOfDependents,
		Smoker,
		City,
		BloodPressure,
		Diabetes,
		RegularExercise,
		JobTitle,
	}

	// AssetFields are summed into total_assets.
	AssetFields = []string{
		ResidentialAssetsValue,
		CommercialAssetsValue,
		LuxuryAssetsValue,
		BankAssetValue,
	}

	categorical = map[Domain][]string{
		Finance: {Education, SelfEmployed},
		Health:  {Sex, HereditaryDiseases, City, JobTitle},
	}
)

// Fields returns the input schema of the domain.
func Fields(d Domain) []string {
	switch d {
	case Finance:
		return FinanceFields
	case Health:
		return HealthFields
	default:
		return nil
	}
}

// CategoricalFields returns the fields of the domain that go through
// a categorical encoder.
func CategoricalFields(d Domain) []string {
	return categorical[d]
}

// IsCategorical reports whether field is categorical in the domain.
func IsCategorical(d Domain, field string) bool {
	for _, f := range categorical[d] {
		if f == field {
			return true
		}
	}
	return false
}
