package validator

import (
	"context"
	"fmt"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/suite"
)

const (
	TypeColumnToExist            = "expect_column_to_exist"
	TypeColumnValuesToNotBeNull  = "expect_column_values_to_not_be_null"
	TypeColumnValuesToBeBetween  = "expect_column_values_to_be_between"
	TypeColumnValuesToBeUnique   = "expect_column_values_to_be_unique"
	TypeColumnValuesToBeInSet    = "expect_column_values_to_be_in_set"
	TypeTableRowCountToBeBetween = "expect_table_row_count_to_be_between"
)

// record stores the evaluated expectation into the bound suite and
// returns its result. Only the interactive Expect* methods append;
// replay stays read-only.
func (v *Validator) record(cfg suite.ExpectationConfig, res Result) Result {
	res.Expectation = cfg
	v.suite.Append(cfg)
	return res
}

func (v *Validator) ExpectColumnToExist(column string) Result {
	cfg := suite.ExpectationConfig{Type: TypeColumnToExist, Kwargs: map[string]any{"column": column}}
	return v.record(cfg, v.checkColumnToExist(column))
}

func (v *Validator) ExpectColumnValuesToNotBeNull(column string) Result {
	cfg := suite.ExpectationConfig{Type: TypeColumnValuesToNotBeNull, Kwargs: map[string]any{"column": column}}
	return v.record(cfg, v.checkColumnValuesToNotBeNull(column))
}

func (v *Validator) ExpectColumnValuesToBeBetween(column string, minValue, maxValue float64) Result {
	cfg := suite.ExpectationConfig{
		Type:   TypeColumnValuesToBeBetween,
		Kwargs: map[string]any{"column": column, "min_value": minValue, "max_value": maxValue},
	}
	return v.record(cfg, v.checkColumnValuesToBeBetween(column, minValue, maxValue))
}

func (v *Validator) ExpectColumnValuesToBeUnique(column string) Result {
	cfg := suite.ExpectationConfig{Type: TypeColumnValuesToBeUnique, Kwargs: map[string]any{"column": column}}
	return v.record(cfg, v.checkColumnValuesToBeUnique(column))
}

func (v *Validator) ExpectColumnValuesToBeInSet(column string, allowed []any) Result {
	cfg := suite.ExpectationConfig{
		Type:   TypeColumnValuesToBeInSet,
		Kwargs: map[string]any{"column": column, "value_set": allowed},
	}
	return v.record(cfg, v.checkColumnValuesToBeInSet(column, allowed))
}

func (v *Validator) ExpectTableRowCountToBeBetween(minRows, maxRows int) Result {
	cfg := suite.ExpectationConfig{
		Type:   TypeTableRowCountToBeBetween,
		Kwargs: map[string]any{"min_value": minRows, "max_value": maxRows},
	}
	return v.record(cfg, v.checkTableRowCountToBeBetween(minRows, maxRows))
}

func (v *Validator) checkColumnToExist(column string) Result {
	res := Result{Success: v.ActiveBatch().Data.HasColumn(column)}
	if !res.Success {
		res.Details = fmt.Sprintf("column %q not found", column)
	}
	return res
}

func (v *Validator) checkColumnValuesToNotBeNull(column string) Result {
	values, err := v.ActiveBatch().Data.Column(column)
	if err != nil {
		return Result{Success: false, Details: err.Error()}
	}
	res := Result{Success: true}
	for _, val := range values {
		if val == nil {
			res.Success = false
			res.UnexpectedCount++
			res.UnexpectedList = append(res.UnexpectedList, val)
		}
	}
	return res
}

func (v *Validator) checkColumnValuesToBeBetween(column string, minValue, maxValue float64) Result {
	values, err := v.ActiveBatch().Data.Column(column)
	if err != nil {
		return Result{Success: false, Details: err.Error()}
	}
	res := Result{Success: true}
	for _, val := range values {
		f, ok := core.AsFloat(val)
		if !ok || f < minValue || f > maxValue {
			res.Success = false
			res.UnexpectedCount++
			res.UnexpectedList = append(res.UnexpectedList, val)
		}
	}
	return res
}

func (v *Validator) checkColumnValuesToBeUnique(column string) Result {
	values, err := v.ActiveBatch().Data.Column(column)
	if err != nil {
		return Result{Success: false, Details: err.Error()}
	}
	res := Result{Success: true}
	seen := make(map[string]int, len(values))
	for _, val := range values {
		seen[string(core.StableJSONBytes(val))]++
	}
	for _, val := range values {
		if seen[string(core.StableJSONBytes(val))] > 1 {
			res.Success = false
			res.UnexpectedCount++
			res.UnexpectedList = append(res.UnexpectedList, val)
		}
	}
	return res
}

func (v *Validator) checkColumnValuesToBeInSet(column string, allowed []any) Result {
	values, err := v.ActiveBatch().Data.Column(column)
	if err != nil {
		return Result{Success: false, Details: err.Error()}
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[string(core.StableJSONBytes(a))] = true
	}
	res := Result{Success: true}
	for _, val := range values {
		if !allowedSet[string(core.StableJSONBytes(val))] {
			res.Success = false
			res.UnexpectedCount++
			res.UnexpectedList = append(res.UnexpectedList, val)
		}
	}
	return res
}

func (v *Validator) checkTableRowCountToBeBetween(minRows, maxRows int) Result {
	rows := v.ActiveBatch().Data.NumRows()
	res := Result{Success: rows >= minRows && rows <= maxRows}
	if !res.Success {
		res.Details = fmt.Sprintf("table has %d rows", rows)
	}
	return res
}

// Validate replays the bound suite against the active batch. Replay
// never writes back to the suite.
func (v *Validator) Validate(_ context.Context) (*SuiteResult, error) {
	results := make([]Result, 0, len(v.suite.Expectations))
	for _, cfg := range v.suite.Expectations {
		res, err := v.evaluate(cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return aggregate(results), nil
}

func (v *Validator) evaluate(cfg suite.ExpectationConfig) (Result, error) {
	column, _ := cfg.Kwargs["column"].(string)
	var res Result
	switch cfg.Type {
	case TypeColumnToExist:
		res = v.checkColumnToExist(column)
	case TypeColumnValuesToNotBeNull:
		res = v.checkColumnValuesToNotBeNull(column)
	case TypeColumnValuesToBeBetween:
		minValue, okMin := core.AsFloat(cfg.Kwargs["min_value"])
		maxValue, okMax := core.AsFloat(cfg.Kwargs["max_value"])
		if !okMin || !okMax {
			return Result{}, fmt.Errorf("%s requires numeric min_value and max_value", cfg.Type)
		}
		res = v.checkColumnValuesToBeBetween(column, minValue, maxValue)
	case TypeColumnValuesToBeUnique:
		res = v.checkColumnValuesToBeUnique(column)
	case TypeColumnValuesToBeInSet:
		allowed, _ := cfg.Kwargs["value_set"].([]any)
		res = v.checkColumnValuesToBeInSet(column, allowed)
	case TypeTableRowCountToBeBetween:
		minValue, okMin := core.AsFloat(cfg.Kwargs["min_value"])
		maxValue, okMax := core.AsFloat(cfg.Kwargs["max_value"])
		if !okMin || !okMax {
			return Result{}, fmt.Errorf("%s requires numeric min_value and max_value", cfg.Type)
		}
		res = v.checkTableRowCountToBeBetween(int(minValue), int(maxValue))
	default:
		return Result{}, fmt.Errorf("unknown expectation type %q", cfg.Type)
	}
	res.Expectation = cfg
	return res, nil
}
