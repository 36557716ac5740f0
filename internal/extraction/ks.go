package extraction

import (
	"math"

	"distsim/internal/descriptive"

	"gonum.org/v1/gonum/stat"
)

// KolmogorovSmirnov runs the two-sample KS test. The statistic is the largest
// distance between the two empirical CDFs; the p-value uses the asymptotic
// Kolmogorov distribution with Stephens' small-sample correction.
func KolmogorovSmirnov(x, y []float64) (statistic, pValue float64) {
	if len(x) == 0 || len(y) == 0 {
		return math.NaN(), math.NaN()
	}
	xs := descriptive.SortedCopy(x)
	ys := descriptive.SortedCopy(y)

	statistic = stat.KolmogorovSmirnov(xs, nil, ys, nil)
	statistic = descriptive.Clip(statistic, 0, 1)

	n, m := float64(len(xs)), float64(len(ys))
	en := math.Sqrt(n * m / (n + m))
	pValue = kolmogorovSurvival((en + 0.12 + 0.11/en) * statistic)
	return statistic, descriptive.Clip(pValue, 0, 1)
}

// kolmogorovSurvival is Q_KS(z) = 1 - P_KS(z), the probability that the
// Kolmogorov statistic exceeds z.
func kolmogorovSurvival(z float64) float64 {
	if z <= 0 {
		return 1
	}
	if z < 1.18 {
		// P_KS via the theta-function form, which converges fast for small z
		y := math.Exp(-1.23370055013616983 / (z * z))
		p := 2.25675833419102515 * math.Sqrt(-math.Log(y)) *
			(y + math.Pow(y, 9) + math.Pow(y, 25) + math.Pow(y, 49))
		return 1 - p
	}
	x := math.Exp(-2 * z * z)
	return 2 * (x - math.Pow(x, 4) + math.Pow(x, 9))
}
