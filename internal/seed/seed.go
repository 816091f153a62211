package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

type demoMark struct {
	Subject  string
	Score    float64
	Semester int
}

type demoStudent struct {
	Student models.NewStudent
	Marks   []demoMark
}

var demoStudents = []demoStudent{
	{
		Student: models.NewStudent{Name: "Ana Lopez", RollNumber: "CS-2023-001", Department: "Computer Science", ClassYear: 2, Email: "ana.lopez@example.edu"},
		Marks: []demoMark{
			{Subject: "Data Structures", Score: 88, Semester: 3},
			{Subject: "Discrete Mathematics", Score: 74.5, Semester: 3},
		},
	},
	{
		Student: models.NewStudent{Name: "Ben Carter", RollNumber: "CS-2022-014", Department: "Computer Science", ClassYear: 3, Email: "ben.carter@example.edu"},
		Marks: []demoMark{
			{Subject: "Operating Systems", Score: 91, Semester: 5},
			{Subject: "Databases", Score: 67, Semester: 5},
		},
	},
	{
		Student: models.NewStudent{Name: "Chloe Kim", RollNumber: "EE-2023-007", Department: "Electrical Engineering", ClassYear: 2, Email: "chloe.kim@example.edu"},
		Marks: []demoMark{
			{Subject: "Circuit Analysis", Score: 79, Semester: 3},
		},
	},
	{
		Student: models.NewStudent{Name: "Daniel Osei", RollNumber: "ME-2024-003", Department: "Mechanical Engineering", ClassYear: 1, Email: "daniel.osei@example.edu"},
		Marks: []demoMark{
			{Subject: "Engineering Drawing", Score: 58, Semester: 1},
			{Subject: "Calculus I", Score: 82, Semester: 1},
		},
	},
	{
		Student: models.NewStudent{Name: "Elif Demir", RollNumber: "CS-2021-022", Department: "Computer Science", ClassYear: 4, Email: "elif.demir@example.edu"},
	},
}

// CreateDemoData inserts a small set of students and marks. Students that
// already exist (same roll number or email) are skipped along with their marks,
// so running it on every start is safe.
func CreateDemoData(ctx context.Context, svc services.StudentRecordService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo students...")
	var finalErr error // collect errors without stopping the process

	created := 0
	for _, demo := range demoStudents {
		input := demo.Student
		student, err := svc.CreateStudent(ctx, &input)
		if errors.Is(err, apperrors.ErrConstraintViolation) {
			lgr.Debug().Str("rollNumber", input.RollNumber).Msg("Demo student already exists, skipping")
			continue
		}
		if err != nil {
			lgr.Error().Err(err).Str("rollNumber", input.RollNumber).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++

		for _, m := range demo.Marks {
			_, err := svc.AddMarks(ctx, &models.NewMark{
				StudentID: student.ID,
				Subject:   m.Subject,
				Score:     m.Score,
				Semester:  m.Semester,
			})
			if err != nil {
				lgr.Error().Err(err).Int64("studentID", student.ID).Str("subject", m.Subject).Msg("Error adding demo mark")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	lgr.Info().Int("created", created).Msg("Demo data check/creation finished")
	return finalErr
}
