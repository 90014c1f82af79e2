package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// Complexity limits for expect expressions.
const (
	maxExpressionLength = 1000
	maxASTNodes         = 100
)

// StatusAggregator determines status at series and run level.
// It caches compiled expect expressions.
type StatusAggregator struct {
	programCache map[string]*vm.Program
	cacheMu      sync.RWMutex
}

// NewStatusAggregator creates a new status aggregator service with initialized cache.
func NewStatusAggregator() *StatusAggregator {
	return &StatusAggregator{
		programCache: make(map[string]*vm.Program),
	}
}

// AggregateRunStatus determines the run status from series statuses.
//
// Precedence: fail > error > pass. A run where every series was skipped,
// or that has no series at all, is skipped.
func (s *StatusAggregator) AggregateRunStatus(seriesStatuses []values.Status) values.Status {
	if len(seriesStatuses) == 0 {
		return values.StatusSkipped
	}

	hasFailure := false
	hasError := false
	allSkipped := true

	for _, status := range seriesStatuses {
		switch status {
		case values.StatusFail:
			hasFailure = true
		case values.StatusError:
			hasError = true
		}
		if status != values.StatusSkipped {
			allSkipped = false
		}
	}

	switch {
	case hasFailure:
		return values.StatusFail
	case hasError:
		return values.StatusError
	case allSkipped:
		return values.StatusSkipped
	default:
		return values.StatusPass
	}
}

// StatusFromEvaluation converts a tolerance evaluation to a series status
// and a human readable message.
func (s *StatusAggregator) StatusFromEvaluation(eval execution.SeriesEvaluation) (values.Status, string) {
	if eval.Passed() {
		return values.StatusPass, fmt.Sprintf(
			"%d units: active %g within %g ± %g; impurities %g <= %g",
			eval.Units, eval.ActualActive, eval.TargetActive, eval.ActiveMargin,
			eval.ActualImpurity, eval.MaxImpurity,
		)
	}

	var problems []string
	if !eval.ActiveWithinMargin {
		problems = append(problems, fmt.Sprintf(
			"active %g outside %g ± %g (deviation %g)",
			eval.ActualActive, eval.TargetActive, eval.ActiveMargin, eval.ActiveDeviation(),
		))
	}
	if !eval.ImpurityWithinLimit {
		problems = append(problems, fmt.Sprintf(
			"impurities %g exceed limit %g", eval.ActualImpurity, eval.MaxImpurity,
		))
	}
	return values.StatusFail, fmt.Sprintf("%d units: %s", eval.Units, strings.Join(problems, "; "))
}

// StatusFromError converts a query error to a series status.
// An unknown series is an error for that series only, never a failure.
func (s *StatusAggregator) StatusFromError(err error) (values.Status, string) {
	var unknown *entities.UnknownSeriesError
	if errors.As(err, &unknown) {
		return values.StatusError, unknown.Error()
	}
	return values.StatusError, fmt.Sprintf("evaluation failed: %v", err)
}

// DetermineSeriesStatus evaluates the tolerance check and then the spec's
// expect expressions against the evaluation.
//
// Evaluation Rules:
// - Tolerance failure → series FAILS regardless of expectations
// - ALL expect expressions must evaluate to true for the series to PASS
// - ANY false expression → series FAILS
// - Non-boolean result or compilation error → series ERRORS unless it already failed
func (s *StatusAggregator) DetermineSeriesStatus(
	eval execution.SeriesEvaluation,
	expects []string,
) (values.Status, string, []execution.ExpectationResult) {
	status, message := s.StatusFromEvaluation(eval)
	if len(expects) == 0 {
		return status, message, nil
	}

	env := EvaluationEnv(eval)
	options := []expr.Option{
		expr.Env(env),
		expr.AsBool(),
		expr.MaxNodes(maxASTNodes),
	}

	results := make([]execution.ExpectationResult, 0, len(expects))
	expectStatus := values.StatusPass

	for _, expectExpr := range expects {
		result, resultStatus := s.evaluateExpectation(expectExpr, env, options)
		results = append(results, result)

		switch resultStatus {
		case values.StatusFail:
			expectStatus = values.StatusFail
		case values.StatusError:
			if expectStatus != values.StatusFail {
				expectStatus = values.StatusError
			}
		}
	}

	if status == values.StatusFail {
		return status, message, results
	}
	if expectStatus != values.StatusPass {
		return expectStatus, failedExpectations(results), results
	}
	return status, message, results
}

func (s *StatusAggregator) evaluateExpectation(
	expectExpr string,
	env map[string]any,
	options []expr.Option,
) (execution.ExpectationResult, values.Status) {
	result := execution.ExpectationResult{Expression: expectExpr}

	if len(expectExpr) > maxExpressionLength {
		result.Message = fmt.Sprintf("expression too long (max %d chars): %d chars", maxExpressionLength, len(expectExpr))
		return result, values.StatusError
	}

	program, err := s.getOrCompileExpression(expectExpr, options)
	if err != nil {
		result.Message = fmt.Sprintf("compilation failed: %v", err)
		return result, values.StatusError
	}

	output, err := expr.Run(program, env)
	if err != nil {
		result.Message = fmt.Sprintf("evaluation failed: %v", err)
		return result, values.StatusError
	}

	passed, ok := output.(bool)
	if !ok {
		result.Message = fmt.Sprintf("expression did not return boolean: %v", output)
		return result, values.StatusError
	}
	if !passed {
		result.Message = fmt.Sprintf("expression evaluated to false: %s", expectExpr)
		return result, values.StatusFail
	}

	result.Passed = true
	return result, values.StatusPass
}

// getOrCompileExpression retrieves a cached program or compiles and caches a new one.
func (s *StatusAggregator) getOrCompileExpression(expression string, options []expr.Option) (*vm.Program, error) {
	s.cacheMu.RLock()
	program, found := s.programCache[expression]
	s.cacheMu.RUnlock()

	if found {
		return program, nil
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if program, found := s.programCache[expression]; found {
		return program, nil
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	s.programCache[expression] = program
	return program, nil
}

// EvaluationEnv exposes a SeriesEvaluation to expect expressions.
func EvaluationEnv(eval execution.SeriesEvaluation) map[string]any {
	return map[string]any{
		"series":                eval.Series.String(),
		"units":                 eval.Units,
		"expected_active":       eval.ExpectedActive,
		"active_tolerance":      eval.ActiveTolerance,
		"allowed_impurity":      eval.AllowedImpurity,
		"target_active":         eval.TargetActive,
		"active_margin":         eval.ActiveMargin,
		"actual_active":         eval.ActualActive,
		"active_deviation":      eval.ActiveDeviation(),
		"max_impurity":          eval.MaxImpurity,
		"actual_impurity":       eval.ActualImpurity,
		"active_within_margin":  eval.ActiveWithinMargin,
		"impurity_within_limit": eval.ImpurityWithinLimit,
	}
}

func failedExpectations(results []execution.ExpectationResult) string {
	var messages []string
	for _, r := range results {
		if !r.Passed {
			messages = append(messages, r.Message)
		}
	}
	return strings.Join(messages, "; ")
}
