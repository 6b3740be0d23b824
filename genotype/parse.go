package genotype

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// Columns of a profile file row
const (
	colRsID int = iota
	colChromosome
	colPosition
	colGenotype
)

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// ReadProfileFile parses a genotype export in the common direct-to-consumer
// layout: one call per row with rsid, chromosome, position, and genotype
// columns. '#' comment lines are skipped and a header row is permitted.
// The delimiter (tab or comma) is detected from the file contents.
func ReadProfileFile(path, sessionID string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return parseProfile(raw, sessionID)
}

func parseProfile(raw []byte, sessionID string) (*Profile, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = DetermineDelimiter(bytes.NewReader(raw))
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	observations := make([]Observation, 0)

	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if len(row) < 4 {
			return nil, pfx.Err(fmt.Errorf("row %d: expected 4 columns (rsid, chromosome, position, genotype), got %d", i, len(row)))
		}

		obs, err := parseObservationRow(row)
		if err != nil && i == 0 {
			// Permit a header and skip it
			continue
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		observations = append(observations, obs)
	}

	return NewProfile(sessionID, observations)
}

func parseObservationRow(row []string) (Observation, error) {
	obs := Observation{RsID: row[colRsID]}

	if _, err := strconv.ParseUint(row[colPosition], 10, 32); err != nil {
		return obs, err
	}

	g, err := ParseGenotype(row[colGenotype])
	if err != nil {
		return obs, err
	}
	obs.Genotype = g

	return obs, nil
}
