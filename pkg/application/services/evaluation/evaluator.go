package evaluation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// ErrEvaluationMethodUndefined is returned for an evaluation method outside 1..3.
// The permutations keep rank 0.
var ErrEvaluationMethodUndefined = errors.New("evaluation method is not defined")

// DefaultComparisonPrecision is the number of decimals comparison values are rounded to
const DefaultComparisonPrecision = 3

// Evaluator ranks the permutations of a solution space with the method chosen by the part
type Evaluator struct {
	precision int32
	logger    *zap.Logger
}

// NewEvaluator creates an evaluator rounding comparison values to precision decimals
func NewEvaluator(precision int32, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if precision < 0 {
		precision = DefaultComparisonPrecision
	}
	return &Evaluator{
		precision: precision,
		logger:    logger,
	}
}

// Evaluate assigns ranks to every permutation of the space exactly once and marks
// the space ranked. A space with at most one permutation always uses field evaluation.
func (e *Evaluator) Evaluate(space *entities.SolutionSpace, part *entities.Part) error {
	if space.Ranked {
		return fmt.Errorf("solution space %s is already ranked", space.ID)
	}

	permutations := space.Permutations
	method := part.EvaluationMethod

	switch {
	case len(permutations) <= 1:
		e.logger.Warn("could not evaluate the permutations, since there is only one",
			zap.String("solution_space_id", string(space.ID)),
			zap.Int("permutations", len(permutations)))
		FieldEvaluation(permutations, part)
	case method == entities.FieldEvaluation:
		FieldEvaluation(permutations, part)
	case method == entities.WeightedFieldEvaluation:
		RankByComparisonValue(permutations, WeightedValues(permutations, part), e.precision)
	case method == entities.CriticEvaluation:
		values, weights := CriticValues(permutations)
		e.logger.Debug("critic weights",
			zap.String("solution_space_id", string(space.ID)),
			zap.Float64("price", weights.Price),
			zap.Float64("time", weights.Time),
			zap.Float64("co2", weights.CO2))
		RankByComparisonValue(permutations, values, e.precision)
	default:
		e.logger.Error("evaluation method is not defined",
			zap.String("solution_space_id", string(space.ID)),
			zap.Int("method", int(method)))
		return fmt.Errorf("%w: %d", ErrEvaluationMethodUndefined, int(method))
	}

	space.Ranked = true
	return nil
}
