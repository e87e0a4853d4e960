package game

import "fmt"

// MaxLogError is the widest allowed error radius, in orders of magnitude.
const MaxLogError = 3

// multipliers maps a prediction's log error to the per-chip payout on a
// called round. Tighter predictions pay more per chip.
var multipliers = [MaxLogError + 1]int{8, 5, 2, 1}

// Prediction is the estimator's answer for a round: an order-of-magnitude
// guess plus an error radius in [0, MaxLogError].
type Prediction struct {
	LogAnswer int
	LogError  int
}

// NewPrediction validates and constructs a Prediction.
func NewPrediction(logAnswer, logError int) (Prediction, error) {
	if logError < 0 || logError > MaxLogError {
		return Prediction{}, fmt.Errorf("%w: log error %d outside [0, %d]", ErrInvalidPrediction, logError, MaxLogError)
	}
	return Prediction{LogAnswer: logAnswer, LogError: logError}, nil
}

// Covers reports whether logAnswer falls within the prediction's radius.
func (p Prediction) Covers(logAnswer int) bool {
	return p.LogAnswer-p.LogError <= logAnswer && logAnswer <= p.LogAnswer+p.LogError
}

// Multiplier returns the payout multiplier for the prediction's error radius.
func (p Prediction) Multiplier() int {
	return multipliers[p.LogError]
}
