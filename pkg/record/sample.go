package record

// SampleFinance returns the reference loan applicant used by the
// default audit run.
func SampleFinance() Record {
	return Record{
		NoOfDependents:         2,
		Education:              "Graduate",
		SelfEmployed:           "No",
		IncomeAnnum:            850000,
		LoanAmount:             250000,
		CibilScore:             760,
		ResidentialAssetsValue: 1200000,
		CommercialAssetsValue:  0,
		LuxuryAssetsValue:      200000,
		BankAssetValue:         150000,
	}
}

// SampleHealth returns the reference insurance applicant used by the
// default audit run.
func SampleHealth() Record {
	return Record{
		Age:                42,
		Sex:                "female",
		Weight:             70,
		BMI:                26.3,
		HereditaryDiseases: "NoDisease",
		NoOfDependents:     1,
		Smoker:             0,
		City:               "Boston",
		BloodPressure:      78,
		Diabetes:           0,
		RegularExercise:    1,
		JobTitle:           "Engineer",
	}
}

// Sample returns the reference record of the domain.
func Sample(d Domain) Record {
	switch d {
	case Finance:
		return SampleFinance()
	case Health:
		return SampleHealth()
	default:
		return Record{}
	}
}
