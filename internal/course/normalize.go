package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"campus-space-backend/internal/parse"
)

// ErrUnusableRow marks rows that are incomplete, placeholders, or repeated
// header cells. Such rows are skipped, never admitted to a snapshot.
var ErrUnusableRow = errors.New("unusable course row")

const placeholderTBA = "TBA"

// Normalize validates a raw row and converts it into a Section.
// A row is usable only when it carries a real CRN, a parseable non-placeholder
// time range, and a non-placeholder location. Header rows repeat their column
// names as cell values and are rejected explicitly.
func Normalize(row RawRow) (Section, error) {
	crn := strings.TrimSpace(row.CRN)
	times := strings.TrimSpace(row.Times)
	location := strings.TrimSpace(row.Location)

	switch {
	case crn == "" || crn == "CRN":
		return Section{}, fmt.Errorf("%w: missing CRN", ErrUnusableRow)
	case times == "" || times == placeholderTBA || times == "Times":
		return Section{}, fmt.Errorf("%w: missing time range", ErrUnusableRow)
	case location == "" || location == placeholderTBA || location == "Location":
		return Section{}, fmt.Errorf("%w: missing location", ErrUnusableRow)
	}

	tr, err := parse.ParseTimeRange(times)
	if err != nil {
		// Malformed time drops this row only, not the whole batch.
		return Section{}, fmt.Errorf("%w: %v", ErrUnusableRow, err)
	}

	return Section{
		CRN:          crn,
		Subject:      strings.TrimSpace(row.Subject),
		Course:       strings.TrimSpace(row.Course),
		SectionCode:  strings.TrimSpace(row.Section),
		Title:        strings.TrimSpace(row.Title),
		Days:         strings.TrimSpace(row.Days),
		Times:        times,
		StartMinutes: tr.StartMinutes,
		EndMinutes:   tr.EndMinutes,
		Location:     location,
		Instructor:   strings.TrimSpace(row.Instructor),
		DeliveryMode: strings.TrimSpace(row.Mode),
		Status:       strings.TrimSpace(row.Status),
		MaxStudents:  atoiOrZero(row.MaxStudents),
		Enrolled:     atoiOrZero(row.Enrolled),
	}, nil
}

// NormalizeAll converts every usable row and reports how many were dropped.
func NormalizeAll(rows []RawRow) (sections []Section, dropped int) {
	for _, row := range rows {
		s, err := Normalize(row)
		if err != nil {
			dropped++
			continue
		}
		sections = append(sections, s)
	}
	return sections, dropped
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
