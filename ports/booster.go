package ports

// Booster is a trained multi-class gradient-boosted model
type Booster interface {
	// NumClasses is the number of probability columns PredictProba returns
	NumClasses() int

	// NumFeatures is the width of each input row
	NumFeatures() int

	// PredictProba returns one probability row per input row
	PredictProba(rows [][]float64) ([][]float64, error)
}
