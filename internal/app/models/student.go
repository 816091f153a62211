package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	Name       string `json:"name" db:"name" example:"Ana"`
	RollNumber string `json:"roll_number" db:"roll_number" example:"R1"`
	Department string `json:"department" db:"department" example:"CS"`
	ClassYear  int    `json:"class_year" db:"class_year" example:"2"`
	Email      string `json:"email" db:"email" example:"a@x.com"`
}

// StudentUpdatableFields lists the columns a partial update may change
var StudentUpdatableFields = map[string]FieldKind{
	"name":        FieldString,
	"roll_number": FieldString,
	"department":  FieldString,
	"class_year":  FieldInt,
	"email":       FieldString,
}

// StudentColumns lists the writable students columns in table order
var StudentColumns = []string{"name", "roll_number", "department", "class_year", "email"}
