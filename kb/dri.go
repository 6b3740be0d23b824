package kb

import (
	"fmt"
)

// DRIRow is one row of the nutrient reference-intake table (Chinese DRI
// 2022 calibration in the shipped catalog): a baseline intake for one
// nutrient, sex, and age group.
type DRIRow struct {
	Nutrient string  `csv:"nutrient"`
	Sex      Sex     `csv:"sex"`
	AgeGroup string  `csv:"age_group"`
	Value    float64 `csv:"value"`
	Unit     string  `csv:"unit"`
}

// Adult age groups per Chinese DRI 2022. Closed intervals.
const (
	AgeGroup18to49 = "18_49"
	AgeGroup50to64 = "50_64"
	AgeGroup65Plus = "65_plus"
)

// AgeGroupFor buckets an age in years into a DRI age group. Ages under 18
// fall outside every defined bucket.
func AgeGroupFor(age int) (string, bool) {
	switch {
	case age < 18:
		return "", false
	case age <= 49:
		return AgeGroup18to49, true
	case age <= 64:
		return AgeGroup50to64, true
	default:
		return AgeGroup65Plus, true
	}
}

// DRITable indexes reference-intake rows by nutrient, sex, and age group.
type DRITable struct {
	rows      map[string]DRIRow
	nutrients map[string]bool
}

func driKey(nutrient string, sex Sex, ageGroup string) string {
	return nutrient + "|" + string(sex) + "|" + ageGroup
}

// NewDRITable builds the lookup table. Duplicate rows for the same
// (nutrient, sex, age group) are reference-data defects.
func NewDRITable(rows []DRIRow) (*DRITable, error) {
	t := &DRITable{
		rows:      make(map[string]DRIRow, len(rows)),
		nutrients: make(map[string]bool),
	}

	for _, row := range rows {
		if row.Value <= 0 {
			return nil, IntegrityError{Detail: fmt.Sprintf("reference intake for %s (%s, %s) is not positive", row.Nutrient, row.Sex, row.AgeGroup)}
		}

		key := driKey(row.Nutrient, row.Sex, row.AgeGroup)
		if _, dup := t.rows[key]; dup {
			return nil, IntegrityError{Detail: fmt.Sprintf("duplicate reference-intake row for %s (%s, %s)", row.Nutrient, row.Sex, row.AgeGroup)}
		}

		t.rows[key] = row
		t.nutrients[row.Nutrient] = true
	}

	return t, nil
}

// HasNutrient reports whether any row exists for the nutrient.
func (t *DRITable) HasNutrient(nutrient string) bool {
	return t.nutrients[nutrient]
}

// Lookup returns the reference-intake row matching the demographics. A
// known sex first tries its own row, then a sex-neutral one. SexUnknown
// only ever matches a sex-neutral row, keeping the fallback deterministic.
func (t *DRITable) Lookup(nutrient string, sex Sex, ageGroup string) (DRIRow, bool) {
	if sex == SexMale || sex == SexFemale {
		if row, ok := t.rows[driKey(nutrient, sex, ageGroup)]; ok {
			return row, true
		}
	}

	row, ok := t.rows[driKey(nutrient, SexAny, ageGroup)]

	return row, ok
}

// Unit returns the unit string recorded for a nutrient.
func (t *DRITable) Unit(nutrient string) string {
	for _, row := range t.rows {
		if row.Nutrient == nutrient {
			return row.Unit
		}
	}

	return ""
}
