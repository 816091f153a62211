package dto

import "github.com/yigit/studentrecords/internal/app/models"

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	Name       string `json:"name" binding:"required" example:"Ana"`
	RollNumber string `json:"roll_number" binding:"required" example:"R1"`
	Department string `json:"department" binding:"required" example:"CS"`
	ClassYear  int    `json:"class_year" binding:"min=-2147483648,max=2147483647" example:"2"`
	Email      string `json:"email" binding:"required" example:"a@x.com"`
}

// ToModel converts the request into the service input
func (r CreateStudentRequest) ToModel() *models.NewStudent {
	return &models.NewStudent{
		Name:       r.Name,
		RollNumber: r.RollNumber,
		Department: r.Department,
		ClassYear:  r.ClassYear,
		Email:      r.Email,
	}
}

// StudentMarksResponse is a student together with its marks
type StudentMarksResponse struct {
	StudentID int64          `json:"student_id"`
	Marks     []*models.Mark `json:"marks"`
}
