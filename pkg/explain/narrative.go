package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/kavach/whitebox/pkg/feature"
	"github.com/kavach/whitebox/pkg/model"
	"github.com/kavach/whitebox/pkg/record"
)

// Materiality thresholds. Finance contributions are log-odds, health
// contributions are currency units.
const (
	FinanceThreshold = 0.05
	HealthThreshold  = 100.0
)

const bullet = "• "

// Effect is the direction of a contribution for the applicant.
type Effect string

const (
	Favorable Effect = "favorable"
	Adverse   Effect = "adverse"
)

// Statement is one rendered narrative line.
type Statement struct {
	Feature      string  `json:"feature" yaml:"feature"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
	Text         string  `json:"text" yaml:"text"`
	Interaction  bool    `json:"interaction,omitempty" yaml:"interaction,omitempty"`
	Effect       Effect  `json:"effect" yaml:"effect"`
}

func (s Statement) String() string {
	return bullet + s.Text
}

type valueFormat int

const (
	asNone valueFormat = iota
	asDisplay
	asMoney
	asFixed
)

// template renders a feature sentence. text holds one %s verb unless
// format is asNone.
type template struct {
	format valueFormat
	text   string
}

var templates = map[record.Domain]map[string]template{
	record.Finance: {
		record.CibilScore:         {asDisplay, "Your credit score (%s) shows your repayment reliability"},
		record.IncomeAnnum:        {asMoney, "Your yearly income (%s) affects your repayment capacity"},
		record.LoanAmount:         {asMoney, "The requested loan (%s) impacts risk evaluation"},
		feature.LoanToIncomeRatio: {asFixed, "Your loan is %s× your income"},
		feature.AssetToLoanRatio:  {asFixed, "Your assets cover %s× of the loan"},
		record.BankAssetValue:     {asMoney, "Your bank savings (%s) act as financial security"},
		record.NoOfDependents:     {asDisplay, "You support %s dependents"},
		feature.TotalAssets:       {asMoney, "Your total assets (%s) back the application"},
		record.Education:          {asDisplay, "Your education (%s) was considered"},
		record.SelfEmployed:       {asDisplay, "Your self-employment status (%s) shapes income stability"},
		record.LoanTerm:           {asDisplay, "The loan term (%s years) sets the repayment schedule"},
	},
	record.Health: {
		record.Age:                {asDisplay, "Your age (%s years) affects health risk"},
		record.BMI:                {asDisplay, "Your BMI (%s) reflects fitness level"},
		record.Smoker:             {asNone, "Smoking status influences medical costs"},
		record.BloodPressure:      {asDisplay, "Blood pressure (%s) impacts risk"},
		record.Diabetes:           {asNone, "Diabetes history increases coverage risk"},
		record.Weight:             {asDisplay, "Body weight (%s kg) affects premiums"},
		record.Sex:                {asNone, "Gender-related health patterns are considered"},
		record.HereditaryDiseases: {asDisplay, "Family medical history (%s) affects risk"},
		record.RegularExercise:    {asNone, "Exercise habits influence long-term health costs"},
	},
}

var sentiments = map[record.Domain]map[Effect]string{
	record.Finance: {Favorable: "helped your approval", Adverse: "reduced approval chances"},
	record.Health:  {Favorable: "reduced premium", Adverse: "increased premium"},
}

// Threshold returns the materiality threshold of the domain.
func Threshold(d record.Domain) float64 {
	if d == record.Health {
		return HealthThreshold
	}
	return FinanceThreshold
}

// EffectOf returns the direction of contribution c. Finance scores push
// toward approval when positive; health scores raise the premium.
func EffectOf(d record.Domain, c float64) Effect {
	if d == record.Health {
		if c < 0 {
			return Favorable
		}
		return Adverse
	}
	if c > 0 {
		return Favorable
	}
	return Adverse
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithCurrency sets the money symbol.
func WithCurrency(symbol string) Option {
	return func(n *Narrator) {
		n.currency = symbol
	}
}

// Narrator turns contributions into sentences.
type Narrator struct {
	currency string
}

// NewNarrator creates a narrator with the default currency unless
// overridden.
func NewNarrator(opts ...Option) *Narrator {
	n := &Narrator{currency: DefaultCurrency}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Currency returns the configured money symbol.
func (n *Narrator) Currency() string {
	return n.currency
}

// ExplainFeature renders the statement for one explanation term. The
// second return is false when the contribution is below the domain
// materiality threshold or the domain is unknown.
func (n *Narrator) ExplainFeature(name string, contribution float64, raw any, d record.Domain) (Statement, bool) {
	table, ok := templates[d]
	if !ok {
		return Statement{}, false
	}

	if math.Abs(contribution) < Threshold(d) {
		return Statement{}, false
	}

	s := Statement{
		Feature:      name,
		Contribution: contribution,
		Effect:       EffectOf(d, contribution),
	}

	if IsInteraction(name) {
		s.Interaction = true
		s.Text = fmt.Sprintf("Combined effect of %s influenced the outcome.", Readable(name))
		return s, true
	}

	tpl, ok := table[name]
	if !ok {
		tpl = template{asNone, "Your " + Humanize(name) + " was evaluated"}
	}

	s.Text = fmt.Sprintf("%s. This %s.", n.render(tpl, ParseNumber(raw)), sentiments[d][s.Effect])
	return s, true
}

func (n *Narrator) render(t template, v Number) string {
	switch t.format {
	case asMoney:
		return fmt.Sprintf(t.text, v.Money(n.currency))
	case asFixed:
		return fmt.Sprintf(t.text, v.Fixed())
	case asDisplay:
		return fmt.Sprintf(t.text, v.Display())
	default:
		return t.text
	}
}

// IsInteraction reports whether name is a pair term.
func IsInteraction(name string) bool {
	return strings.Contains(name, strings.TrimSpace(model.InteractionSeparator))
}

// Readable renders a pair term name as "a and b".
func Readable(name string) string {
	parts := strings.Split(name, strings.TrimSpace(model.InteractionSeparator))
	for i, p := range parts {
		parts[i] = Humanize(strings.TrimSpace(p))
	}
	return strings.Join(parts, " and ")
}

// Humanize replaces underscores with spaces.
func Humanize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
