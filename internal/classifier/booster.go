package classifier

import (
	"fmt"

	"distsim/ports"

	"github.com/dmitryikh/leaves"
)

// lightGBMBooster adapts a LightGBM text model read by leaves to ports.Booster
type lightGBMBooster struct {
	ensemble *leaves.Ensemble
}

// LoadLightGBM reads a LightGBM text model. The softmax transformation is
// loaded with the trees so predictions come back as class probabilities.
func LoadLightGBM(path string) (ports.Booster, error) {
	ensemble, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, err
	}
	if ensemble.NOutputGroups() < 2 {
		return nil, fmt.Errorf("model %s is not a multi-class classifier", path)
	}
	return &lightGBMBooster{ensemble: ensemble}, nil
}

func (b *lightGBMBooster) NumClasses() int {
	return b.ensemble.NOutputGroups()
}

func (b *lightGBMBooster) NumFeatures() int {
	return b.ensemble.NFeatures()
}

func (b *lightGBMBooster) PredictProba(rows [][]float64) ([][]float64, error) {
	ncols := b.NumFeatures()
	vals := make([]float64, 0, len(rows)*ncols)
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), ncols)
		}
		vals = append(vals, row...)
	}

	groups := b.NumClasses()
	preds := make([]float64, len(rows)*groups)
	if err := b.ensemble.PredictDense(vals, len(rows), ncols, preds, 0, 1); err != nil {
		return nil, err
	}

	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = preds[i*groups : (i+1)*groups]
	}
	return out, nil
}
