package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/internal"
	"distsim/ports"

	"github.com/tidwall/gjson"
)

const (
	modelExt      = ".txt"
	sidecarSuffix = "_components.json"
)

// Artifact is a loaded trained model. It is read-only once built and can be
// shared across goroutines.
type Artifact struct {
	Version        string
	Booster        ports.Booster
	Encoder        LabelEncoder
	FeatureColumns []features.Name
	Thresholds     SensitivityThresholds
	LabelMapping   map[string]int
}

// NewArtifact assembles an artifact from an in-memory booster, checking that
// the booster's shape agrees with the feature columns and encoder.
func NewArtifact(version string, booster ports.Booster, encoder LabelEncoder, columns []features.Name, thresholds SensitivityThresholds) (*Artifact, error) {
	if booster == nil {
		return nil, fmt.Errorf("artifact %s has no booster", version)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("artifact %s has no feature columns", version)
	}
	if n := booster.NumFeatures(); n != len(columns) {
		return nil, fmt.Errorf("artifact %s: booster expects %d features, components list %d", version, n, len(columns))
	}
	if n := booster.NumClasses(); n != encoder.Len() {
		return nil, fmt.Errorf("artifact %s: booster has %d classes, encoder has %d", version, n, encoder.Len())
	}

	mapping := make(map[string]int, encoder.Len())
	for i, c := range encoder.Classes() {
		mapping[c] = i
	}
	return &Artifact{
		Version:        version,
		Booster:        booster,
		Encoder:        encoder,
		FeatureColumns: columns,
		Thresholds:     thresholds,
		LabelMapping:   mapping,
	}, nil
}

// ModelPaths resolves a version name or explicit model path to the model file
// and its components sidecar. A bare version resolves inside dir.
func ModelPaths(dir, versionOrPath string) (model, sidecar, version string) {
	model = versionOrPath
	if !strings.HasSuffix(versionOrPath, modelExt) && !strings.ContainsRune(versionOrPath, filepath.Separator) {
		model = filepath.Join(dir, versionOrPath+modelExt)
	}
	base := strings.TrimSuffix(model, modelExt)
	return model, base + sidecarSuffix, filepath.Base(base)
}

// LoadModel reads a LightGBM model and its components sidecar. A missing
// sidecar falls back to the default thresholds, default feature columns and
// the identity label encoder. Any failure is an ErrModelUnavailable error.
func LoadModel(dir, versionOrPath string, logger *internal.Logger) (*Artifact, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	modelPath, sidecarPath, version := ModelPaths(dir, versionOrPath)

	if _, err := os.Stat(modelPath); err != nil {
		return nil, core.NewModelUnavailableError(modelPath, err)
	}

	comp := defaultComponents()
	data, err := os.ReadFile(sidecarPath)
	switch {
	case err == nil:
		comp, err = parseComponents(data, logger)
		if err != nil {
			return nil, core.NewModelUnavailableError(sidecarPath, err)
		}
	case os.IsNotExist(err):
		logger.Warn("No components file at %s, using default thresholds and feature columns", sidecarPath)
	default:
		return nil, core.NewModelUnavailableError(sidecarPath, err)
	}

	booster, err := LoadLightGBM(modelPath)
	if err != nil {
		return nil, core.NewModelUnavailableError(modelPath, err)
	}

	artifact, err := NewArtifact(version, booster, comp.encoder, comp.columns, comp.thresholds)
	if err != nil {
		return nil, core.NewModelUnavailableError(modelPath, err)
	}
	if comp.labelMapping != nil {
		artifact.LabelMapping = comp.labelMapping
	}
	logger.Info("Loaded model %s (%d features, %d classes)", version, len(comp.columns), comp.encoder.Len())
	return artifact, nil
}

type components struct {
	columns      []features.Name
	thresholds   SensitivityThresholds
	encoder      LabelEncoder
	labelMapping map[string]int
}

func defaultComponents() components {
	return components{
		columns:    features.DefaultColumns(),
		thresholds: DefaultThresholds(),
		encoder:    IdentityEncoder(),
	}
}

// present treats a null section the same as a missing one
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// parseComponents reads the sidecar JSON. Absent sections keep their defaults;
// present but invalid sections are an error.
func parseComponents(data []byte, logger *internal.Logger) (components, error) {
	comp := defaultComponents()
	if !gjson.ValidBytes(data) {
		return comp, fmt.Errorf("components file is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	if cols := doc.Get("feature_columns"); present(cols) {
		var names []string
		for _, c := range cols.Array() {
			names = append(names, c.String())
		}
		parsed, err := features.ParseNames(names)
		if err != nil {
			return comp, err
		}
		if len(parsed) == 0 {
			return comp, fmt.Errorf("feature_columns is empty")
		}
		comp.columns = parsed
	}

	if th := doc.Get("sensitivity_thresholds"); present(th) {
		var seen [NumSensitivityLevels]bool
		var parseErr error
		th.ForEach(func(key, value gjson.Result) bool {
			idx, err := parseLevel(key.String())
			if err != nil {
				parseErr = err
				return false
			}
			comp.thresholds[idx] = value.Float()
			seen[idx] = true
			return true
		})
		if parseErr != nil {
			return comp, parseErr
		}
		for i, ok := range seen {
			if !ok {
				logger.Warn("Sensitivity level %s missing from components, using default %.2f", levelKey(i), comp.thresholds[i])
			}
		}
	}

	if classes := doc.Get("classes"); present(classes) {
		var names []string
		for _, c := range classes.Array() {
			names = append(names, c.String())
		}
		enc, err := NewLabelEncoder(names)
		if err != nil {
			return comp, err
		}
		comp.encoder = enc
	}

	if mapping := doc.Get("label_mapping"); present(mapping) {
		comp.labelMapping = make(map[string]int)
		mapping.ForEach(func(key, value gjson.Result) bool {
			comp.labelMapping[key.String()] = int(value.Int())
			return true
		})
	}
	return comp, nil
}

// Components is the persisted form of everything but the booster
type Components struct {
	FeatureColumns        []string           `json:"feature_columns"`
	SensitivityThresholds map[string]float64 `json:"sensitivity_thresholds"`
	Classes               []string           `json:"classes"`
	LabelMapping          map[string]int     `json:"label_mapping"`
}

// ComponentsOf returns the sidecar content for an artifact
func ComponentsOf(a *Artifact) Components {
	cols := make([]string, len(a.FeatureColumns))
	for i, c := range a.FeatureColumns {
		cols[i] = c.String()
	}
	return Components{
		FeatureColumns:        cols,
		SensitivityThresholds: a.Thresholds.Map(),
		Classes:               a.Encoder.Classes(),
		LabelMapping:          a.LabelMapping,
	}
}

// WriteComponents writes the sidecar next to the model file for version
func WriteComponents(dir, version string, c Components) (string, error) {
	_, sidecar, _ := ModelPaths(dir, version)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(sidecar), 0o755); err != nil {
		return "", err
	}
	return sidecar, os.WriteFile(sidecar, data, 0o644)
}
