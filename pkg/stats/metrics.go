package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ClassificationMetrics summarizes binary predictions. Confusion is
// [[TN FP] [FN TP]].
type ClassificationMetrics struct {
	Accuracy    float64   `json:"accuracy" yaml:"accuracy"`
	Precision   float64   `json:"precision" yaml:"precision"`
	Recall      float64   `json:"recall" yaml:"recall"`
	F1          float64   `json:"f1" yaml:"f1"`
	Specificity float64   `json:"specificity" yaml:"specificity"`
	Confusion   [2][2]int `json:"confusion" yaml:"confusion"`
	Samples     int       `json:"samples" yaml:"samples"`
}

// RegressionMetrics summarizes continuous predictions.
type RegressionMetrics struct {
	R2                float64 `json:"r2" yaml:"r2"`
	MAE               float64 `json:"mae" yaml:"mae"`
	RMSE              float64 `json:"rmse" yaml:"rmse"`
	ExplainedVariance float64 `json:"explained_variance" yaml:"explained_variance"`
	Samples           int     `json:"samples" yaml:"samples"`
}

func checkLengths(yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.New("no samples")
	}
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("length mismatch: %d labels, %d predictions", len(yTrue), len(yPred))
	}
	return nil
}

// Classification computes metrics for 0/1 labels. Any non-zero value
// counts as the positive class.
func Classification(yTrue, yPred []float64) (ClassificationMetrics, error) {
	if err := checkLengths(yTrue, yPred); err != nil {
		return ClassificationMetrics{}, err
	}

	var m ClassificationMetrics
	for i := range yTrue {
		actual, predicted := 0, 0
		if yTrue[i] != 0 {
			actual = 1
		}
		if yPred[i] != 0 {
			predicted = 1
		}
		m.Confusion[actual][predicted]++
	}

	tn, fp := float64(m.Confusion[0][0]), float64(m.Confusion[0][1])
	fn, tp := float64(m.Confusion[1][0]), float64(m.Confusion[1][1])

	m.Samples = len(yTrue)
	m.Accuracy = (tp + tn) / float64(m.Samples)
	m.Precision = ratio(tp, tp+fp)
	m.Recall = ratio(tp, tp+fn)
	m.Specificity = ratio(tn, tn+fp)
	m.F1 = ratio(2*m.Precision*m.Recall, m.Precision+m.Recall)
	return m, nil
}

// Regression computes goodness-of-fit metrics.
func Regression(yTrue, yPred []float64) (RegressionMetrics, error) {
	if err := checkLengths(yTrue, yPred); err != nil {
		return RegressionMetrics{}, err
	}

	n := float64(len(yTrue))
	residuals := make([]float64, len(yTrue))
	var absSum, sqSum float64
	for i := range yTrue {
		r := yTrue[i] - yPred[i]
		residuals[i] = r
		absSum += math.Abs(r)
		sqSum += r * r
	}

	m := RegressionMetrics{
		Samples: len(yTrue),
		MAE:     absSum / n,
		RMSE:    math.Sqrt(sqSum / n),
	}

	_, trueStd := stat.PopMeanStdDev(yTrue, nil)
	if trueStd == 0 {
		return m, nil
	}
	trueVar := trueStd * trueStd

	m.R2 = stat.RSquaredFrom(yPred, yTrue, nil)
	_, resStd := stat.PopMeanStdDev(residuals, nil)
	m.ExplainedVariance = 1 - resStd*resStd/trueVar
	return m, nil
}

// MeanStd returns the population mean and standard deviation.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.PopMeanStdDev(xs, nil)
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
