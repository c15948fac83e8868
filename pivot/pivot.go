// Package pivot turns the flat attendance history of a class into the dense
// per-student, per-date grid the reporting screens render.
package pivot

import "sort"

// NoRecord fills a grid cell when a student has no attendance row for that
// date. Distinct from both status codes.
const NoRecord = "-"

// Record is one sparse attendance observation. Dates are ISO-8601
// YYYY-MM-DD strings; Status is the single-letter code "P" or "A".
type Record struct {
	Date        string `json:"date"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
}

// Row is one student's line in the grid. Attendance holds exactly one cell
// per grid date.
type Row struct {
	RollNo     string   `json:"roll_no"`
	Name       string   `json:"name"`
	Attendance []string `json:"attendance"`
}

// Grid is the dense matrix view: Dates strictly ascending with no
// duplicates, Rows in first-seen student order.
type Grid struct {
	Dates []string `json:"dates"`
	Rows  []Row    `json:"rows"`
}

type cellKey struct {
	studentID string
	date      string
}

// Pivot builds the grid from a record list. Deterministic for any ordering
// of the same input: dates sort ascending (lexicographic order matches
// chronological for ISO dates), duplicate students collapse into one row,
// and for conflicting duplicates the first-seen name and status win. Empty
// input yields an empty grid.
func Pivot(records []Record) Grid {
	dateSet := make(map[string]struct{})
	names := make(map[string]string)
	cells := make(map[cellKey]string)
	var order []string

	for _, r := range records {
		dateSet[r.Date] = struct{}{}
		if _, seen := names[r.StudentID]; !seen {
			names[r.StudentID] = r.StudentName
			order = append(order, r.StudentID)
		}
		key := cellKey{studentID: r.StudentID, date: r.Date}
		if _, seen := cells[key]; !seen {
			cells[key] = r.Status
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		row := Row{
			RollNo:     id,
			Name:       names[id],
			Attendance: make([]string, 0, len(dates)),
		}
		for _, d := range dates {
			status, ok := cells[cellKey{studentID: id, date: d}]
			if !ok {
				status = NoRecord
			}
			row.Attendance = append(row.Attendance, status)
		}
		rows = append(rows, row)
	}

	return Grid{Dates: dates, Rows: rows}
}
