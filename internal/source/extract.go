package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"campus-space-backend/internal/course"
)

// rowRule maps the cells of one table row onto a RawRow. The two portal
// views expose different column layouts, so each adapter picks its own rule.
type rowRule struct {
	minCells int
	build    func(cells []string) course.RawRow
}

// scheduleRule matches the registration schedule table: section first,
// then CRN, days, times, location, status, counts, instructor, mode.
var scheduleRule = rowRule{
	minCells: 12,
	build: func(c []string) course.RawRow {
		return course.RawRow{
			Section:     c[0],
			CRN:         c[1],
			Days:        c[2],
			Times:       c[3],
			Location:    c[4],
			Status:      c[5],
			MaxStudents: c[6],
			Enrolled:    c[7],
			Instructor:  c[8],
			Mode:        c[9],
		}
	},
}

// compactScheduleRule is the secondary rule for the same view rendered
// without trailing columns.
var compactScheduleRule = rowRule{minCells: 10, build: scheduleRule.build}

// rosterRule matches the authenticated roster view: CRN leads, followed by
// subject, course, section, title, days, times, location, instructor.
var rosterRule = rowRule{
	minCells: 8,
	build: func(c []string) course.RawRow {
		row := course.RawRow{
			CRN:      c[0],
			Subject:  c[1],
			Course:   c[2],
			Section:  c[3],
			Title:    c[4],
			Days:     c[5],
			Times:    c[6],
			Location: c[7],
		}
		if len(c) > 8 {
			row.Instructor = c[8]
		}
		return row
	},
}

// extractRows collects the usable rows the selector yields under the given
// rule. Rows failing the usability check (placeholders, header rows, missing
// CRN) are filtered here; full validation happens again in course.Normalize.
func extractRows(doc *goquery.Document, selector string, rule rowRule) []course.RawRow {
	var rows []course.RawRow

	doc.Find(selector).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})

		if len(cells) < rule.minCells {
			return
		}

		row := rule.build(cells)
		if usableRow(row) {
			rows = append(rows, row)
		}
	})

	return rows
}

// usableRow mirrors the normalizer's admission rule so adapters can tell an
// empty result apart from a table of headers and placeholders.
func usableRow(r course.RawRow) bool {
	if r.CRN == "" || r.CRN == "CRN" {
		return false
	}
	if r.Times == "" || r.Times == "TBA" || r.Times == "Times" {
		return false
	}
	if r.Location == "" || r.Location == "TBA" || r.Location == "Location" {
		return false
	}
	return true
}
