package models

// FieldKind tells partial updates how to coerce an incoming value
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt
	FieldFloat
)

// String returns the kind name used in error messages
func (k FieldKind) String() string {
	switch k {
	case FieldInt:
		return "integer"
	case FieldFloat:
		return "number"
	default:
		return "string"
	}
}

// NewStudent holds the fields supplied when creating a student
type NewStudent struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Department string `json:"department"`
	ClassYear  int    `json:"class_year"`
	Email      string `json:"email"`
}

// NewMark holds the fields supplied when recording a mark
type NewMark struct {
	StudentID int64   `json:"student_id"`
	Subject   string  `json:"subject"`
	Score     float64 `json:"marks"`
	Semester  int     `json:"semester"`
}
