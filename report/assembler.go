package report

import (
	"errors"
)

type assemblyState int

const (
	collecting assemblyState = iota
	completed
)

var errAssemblyComplete = errors.New("report assembly already complete")

// assembler accumulates per-pair results and gaps, then finalizes the
// report exactly once. No partial report is ever exposed: the caller sees
// either the completed report or an error.
type assembler struct {
	state  assemblyState
	report *Report
}

func newAssembler(sessionID, population string) *assembler {
	return &assembler{
		report: &Report{
			SessionID:       sessionID,
			Population:      population,
			Results:         make([]PairResult, 0),
			Gaps:            make([]Gap, 0),
			MissingVariants: make([]string, 0),
			Limitations:     defaultLimitations,
			Disclaimer:      defaultDisclaimer,
		},
	}
}

func (a *assembler) addResult(res PairResult) error {
	if a.state != collecting {
		return errAssemblyComplete
	}

	a.report.Results = append(a.report.Results, res)

	return nil
}

func (a *assembler) addGaps(gaps ...Gap) error {
	if a.state != collecting {
		return errAssemblyComplete
	}

	a.report.Gaps = append(a.report.Gaps, gaps...)

	return nil
}

func (a *assembler) complete(missingRsIDs []string) (*Report, error) {
	if a.state != collecting {
		return nil, errAssemblyComplete
	}

	a.state = completed
	a.report.MissingVariants = append(a.report.MissingVariants, missingRsIDs...)

	return a.report, nil
}
