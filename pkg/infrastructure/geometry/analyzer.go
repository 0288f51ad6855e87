package geometry

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/infrastructure/metrics"
)

// ErrUnsupportedFormat is returned for accepted model formats that cannot be analyzed
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Analyzer derives watertightness, volume and bounding box from a model file
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates a geometry analyzer
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze reads the model file. Volume is truncated to whole mm³ and the
// bounding box extents are rounded to 3 decimals.
func (a *Analyzer) Analyze(path string) (*entities.Geometry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".stl" {
		metrics.RecordGeometryAnalysis("unsupported")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.RecordGeometryAnalysis("error")
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	mesh, err := ReadSTL(f)
	if err != nil {
		metrics.RecordGeometryAnalysis("error")
		return nil, fmt.Errorf("failed to analyze %s: %w", filepath.Base(path), err)
	}

	x, y, z := mesh.Extents()
	geometry := &entities.Geometry{
		IsValid:      mesh.IsWatertight(),
		Volume:       math.Trunc(mesh.Volume()),
		BoundingBoxX: round3(x),
		BoundingBoxY: round3(y),
		BoundingBoxZ: round3(z),
	}

	a.logger.Debug("analyzed model file",
		zap.String("path", path),
		zap.Int("triangles", len(mesh.Triangles)),
		zap.Bool("watertight", geometry.IsValid),
		zap.Float64("volume", geometry.Volume))
	metrics.RecordGeometryAnalysis("ok")

	return geometry, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
