package dto

import "github.com/yigit/studentrecords/internal/app/models"

// AddMarkRequest represents mark creation data
type AddMarkRequest struct {
	StudentID int64   `json:"student_id" binding:"required,gt=0" example:"1"`
	Subject   string  `json:"subject" binding:"required" example:"Math"`
	Marks     float64 `json:"marks" example:"85"`
	Semester  int     `json:"semester" binding:"min=-2147483648,max=2147483647" example:"1"`
}

// ToModel converts the request into the service input
func (r AddMarkRequest) ToModel() *models.NewMark {
	return &models.NewMark{
		StudentID: r.StudentID,
		Subject:   r.Subject,
		Score:     r.Marks,
		Semester:  r.Semester,
	}
}
