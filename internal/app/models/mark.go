package models

// Mark defines a score a student obtained, based on the 'student_marks' table
type Mark struct {
	ID        int64   `json:"id" db:"id" example:"1"`
	StudentID int64   `json:"student_id" db:"student_id" example:"1"`
	Subject   string  `json:"subject" db:"subject" example:"Math"`
	Score     float64 `json:"marks" db:"marks" example:"85"`
	Semester  int     `json:"semester" db:"semester" example:"1"`
}

// MarkUpdatableFields lists the columns a partial update may change.
// A mark never changes owner, so student_id is not listed.
var MarkUpdatableFields = map[string]FieldKind{
	"subject":  FieldString,
	"marks":    FieldFloat,
	"semester": FieldInt,
}

// MarkColumns lists the writable student_marks columns in table order
var MarkColumns = []string{"subject", "marks", "semester"}
