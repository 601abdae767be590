package dualis

import (
	"fmt"
	"regexp"
)

// Layout pins the markup conventions of the result portal. The portal does
// not document any of these, they were observed on the live pages and may
// be overridden from configuration when the markup shifts.
//
// Column fields are zero-based, so 0 is a valid column. Start from
// DefaultLayout and change fields rather than filling a zero Layout.
type Layout struct {
	// row class substrings that mark header rows
	SubheadingMarker string `json:"subheading_marker"`
	TopLevelMarker   string `json:"top_level_marker"`
	// class every data cell carries
	DataCellClass string `json:"data_cell_class"`
	// class of the single cell in a sub-course grouping row
	GroupHeaderClass string `json:"group_header_class"`

	MinCells       int `json:"min_cells"`
	OverviewID     int `json:"overview_id_column"`
	OverviewName   int `json:"overview_name_column"`
	OverviewStatus int `json:"overview_status_column"`
	DetailPoints   int `json:"detail_points_column"`

	// attribute of the status icon, and the value meaning "not graded"
	StatusAttr     string `json:"status_attr"`
	UngradedStatus string `json:"ungraded_status"`
	// points cell substring meaning "not graded yet"
	NotYetMarker string `json:"not_yet_marker"`
	// sub-course label of the final aggregate result
	FinalExamLabel string `json:"final_exam_label"`
	CoursePattern  string `json:"course_pattern"`
}

var DefaultLayout = Layout{
	SubheadingMarker: "subhead",
	TopLevelMarker:   "level00",
	DataCellClass:    "tbdata",
	GroupHeaderClass: "level02",

	MinCells:       6,
	OverviewID:     0,
	OverviewName:   1,
	OverviewStatus: 5,
	DetailPoints:   3,

	StatusAttr:     "title",
	UngradedStatus: "offen",
	NotYetMarker:   "noch nicht",
	FinalExamLabel: "Modulabschlussleistungen",
	CoursePattern:  `[A-Za-z0-9]+[0-9]{4}(?:\.[0-9]{1,2})?`,
}

func (l Layout) Validate() error {
	if l.MinCells <= 0 {
		return fmt.Errorf("min_cells must be positive, got %d", l.MinCells)
	}
	columns := map[string]int{
		"overview_id_column":     l.OverviewID,
		"overview_name_column":   l.OverviewName,
		"overview_status_column": l.OverviewStatus,
		"detail_points_column":   l.DetailPoints,
	}
	for name, index := range columns {
		if index < 0 || index >= l.MinCells {
			return fmt.Errorf("%s must be within [0, %d), got %d", name, l.MinCells, index)
		}
	}
	if l.DataCellClass == "" {
		return fmt.Errorf("data_cell_class must not be empty")
	}
	if l.CoursePattern == "" {
		return fmt.Errorf("course_pattern must not be empty")
	}
	_, err := regexp.Compile(l.CoursePattern)
	if err != nil {
		return fmt.Errorf("course_pattern: %w", err)
	}
	return nil
}
