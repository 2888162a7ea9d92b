package validator

import "github.com/cah-jamey-weyenberg/great-expectations/engine/suite"

// Result is the outcome of evaluating one expectation against a batch.
type Result struct {
	Success         bool                    `json:"success"`
	Expectation     suite.ExpectationConfig `json:"expectation"`
	UnexpectedCount int                     `json:"unexpected_count,omitempty"`
	UnexpectedList  []any                   `json:"unexpected_list,omitempty"`
	Details         string                  `json:"details,omitempty"`
}

// SuiteResult aggregates a full suite run.
type SuiteResult struct {
	Success    bool       `json:"success"`
	Results    []Result   `json:"results"`
	Statistics Statistics `json:"statistics"`
}

type Statistics struct {
	Evaluated  int `json:"evaluated_expectations"`
	Successful int `json:"successful_expectations"`
}

func aggregate(results []Result) *SuiteResult {
	out := &SuiteResult{Success: true, Results: results}
	out.Statistics.Evaluated = len(results)
	for _, r := range results {
		if r.Success {
			out.Statistics.Successful++
		} else {
			out.Success = false
		}
	}
	return out
}
