package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/studentrecords/internal/app/models"
)

// ContentType is the MIME type of the workbook written by WriteStudentsWorkbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	StudentsSheet = "Students"
	MarksSheet    = "Marks"
)

var (
	studentHeader = []interface{}{"ID", "Name", "Roll Number", "Department", "Class Year", "Email"}
	markHeader    = []interface{}{"ID", "Student ID", "Roll Number", "Subject", "Marks", "Semester"}
)

// WriteStudentsWorkbook writes a workbook with one sheet of students and one of marks.
// Marks whose student is not in students still get a row, with an empty roll number.
func WriteStudentsWorkbook(w io.Writer, students []*models.Student, marks []*models.Mark) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StudentsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(MarksSheet); err != nil {
		return fmt.Errorf("failed to create marks sheet: %w", err)
	}

	rollNumbers := make(map[int64]string, len(students))

	if err := writeRow(f, StudentsSheet, 1, studentHeader); err != nil {
		return err
	}
	for i, s := range students {
		rollNumbers[s.ID] = s.RollNumber
		row := []interface{}{s.ID, s.Name, s.RollNumber, s.Department, s.ClassYear, s.Email}
		if err := writeRow(f, StudentsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, MarksSheet, 1, markHeader); err != nil {
		return err
	}
	for i, m := range marks {
		row := []interface{}{m.ID, m.StudentID, rollNumbers[m.StudentID], m.Subject, m.Score, m.Semester}
		if err := writeRow(f, MarksSheet, i+2, row); err != nil {
			return err
		}
	}

	// Students first when the file is opened
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
