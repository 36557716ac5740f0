package classifier

import (
	"errors"
	"sync"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal"
)

// Classifier owns the active model artifact. Switching versions is an
// explicit Load; readers take a snapshot with Artifact and keep using it for
// the rest of their run.
type Classifier struct {
	mu       sync.RWMutex
	modelDir string
	artifact *Artifact
	logger   *internal.Logger
}

// NewClassifier creates a classifier with no model loaded
func NewClassifier(modelDir string, logger *internal.Logger) *Classifier {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Classifier{modelDir: modelDir, logger: logger}
}

// Load replaces the active artifact. On failure the classifier is left
// unloaded and the error is returned; callers normally fall back to rules.
func (c *Classifier) Load(versionOrPath string) error {
	artifact, err := LoadModel(c.modelDir, versionOrPath, c.logger)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.artifact = nil
		c.logger.Warn("Model %s unavailable, rule-based classification will be used: %v", versionOrPath, err)
		return err
	}
	c.artifact = artifact
	return nil
}

// Use installs an already built artifact
func (c *Classifier) Use(a *Artifact) {
	c.mu.Lock()
	c.artifact = a
	c.mu.Unlock()
}

// Loaded reports whether a model is active
func (c *Classifier) Loaded() bool {
	return c.Artifact() != nil
}

// Artifact returns the active artifact or nil
func (c *Classifier) Artifact() *Artifact {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.artifact
}

// Version returns the active model version, or "" when nothing is loaded
func (c *Classifier) Version() string {
	if a := c.Artifact(); a != nil {
		return a.Version
	}
	return ""
}

// EnsureVersion loads version unless it is already active. An empty version
// keeps whatever is loaded.
func (c *Classifier) EnsureVersion(version string) error {
	if version == "" {
		if c.Loaded() {
			return nil
		}
		return core.NewModelUnavailableError(c.modelDir, errNoVersion)
	}
	if _, _, v := ModelPaths(c.modelDir, version); c.Version() == v {
		return nil
	}
	return c.Load(version)
}

// PredictWithSensitivity runs the active artifact
func (c *Classifier) PredictWithSensitivity(vectors []features.Vector, sensitivity float64) ([]similarity.Label, []float64, error) {
	a := c.Artifact()
	if a == nil {
		return nil, nil, core.NewModelUnavailableError(c.modelDir, errNotLoaded)
	}
	return a.PredictWithSensitivity(vectors, sensitivity)
}

var (
	errNotLoaded = errors.New("no model loaded")
	errNoVersion = errors.New("no model version requested")
)
