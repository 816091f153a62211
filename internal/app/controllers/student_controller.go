package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentRecordService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentRecordService, lgr zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         lgr,
	}
}

// GetAllStudents retrieves all students
// @Summary Get all students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Failure 500 {object} dto.APIResponse
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentStatistics returns student counts by department, class year and both
// @Summary Get student statistics
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.StudentStatistics}
// @Router /students/statistics [get]
func (c *StudentController) GetStudentStatistics(ctx *gin.Context) {
	stats, err := c.studentService.GetStudentStatistics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Roll number or email already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, "Invalid student data", err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// GetStudent retrieves a student by ID
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid student ID", err)
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if student == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateStudent changes some fields of a student
// @Summary Update a student
// @Description Accepts any subset of name, roll_number, department, class_year, email
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.APIResponse "Unknown or mistyped field"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 409 {object} dto.APIResponse "Roll number or email already exists"
// @Router /students/{id} [patch]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid student ID", err)
		return
	}

	var data map[string]any
	if err := ctx.ShouldBindJSON(&data); err != nil {
		middleware.RespondValidationError(ctx, "Invalid student data", err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), id, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if student == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// DeleteStudent deletes a student and its marks
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "The deleted student"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid student ID", err)
		return
	}

	student, err := c.studentService.DeleteStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if student == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// SearchStudents filters students by exactly one of name, department or class_year
// @Summary Search students
// @Tags students
// @Produce json
// @Param name query string false "Case-insensitive name fragment"
// @Param department query string false "Exact department"
// @Param class_year query int false "Exact class year"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Failure 400 {object} dto.APIResponse
// @Router /students/search [get]
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	name, hasName := ctx.GetQuery("name")
	department, hasDepartment := ctx.GetQuery("department")
	_, hasClassYear := ctx.GetQuery("class_year")

	given := 0
	for _, present := range []bool{hasName, hasDepartment, hasClassYear} {
		if present {
			given++
		}
	}
	if given != 1 {
		middleware.RespondValidationError(ctx, "Provide exactly one of name, department or class_year", nil)
		return
	}

	var (
		students []*models.Student
		err      error
	)
	switch {
	case hasName:
		students, err = c.studentService.SearchStudentsByName(ctx.Request.Context(), name)
	case hasDepartment:
		students, err = c.studentService.SearchStudentsByDepartment(ctx.Request.Context(), department)
	default:
		classYear, parseErr := helpers.ParseIntQuery(ctx, "class_year")
		if parseErr != nil {
			middleware.RespondValidationError(ctx, "Invalid class year", parseErr)
			return
		}
		students, err = c.studentService.SearchStudentsByClass(ctx.Request.Context(), classYear)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentsByMarksRange lists students with at least one mark in [min, max]
// @Summary Search students by marks range
// @Tags students
// @Produce json
// @Param min query number true "Lower bound (inclusive)"
// @Param max query number true "Upper bound (inclusive)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students/marks-range [get]
func (c *StudentController) GetStudentsByMarksRange(ctx *gin.Context) {
	minMarks, err := helpers.ParseFloatQuery(ctx, "min")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid marks range", err)
		return
	}
	maxMarks, err := helpers.ParseFloatQuery(ctx, "max")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid marks range", err)
		return
	}

	students, err := c.studentService.SearchStudentsByMarksRange(ctx.Request.Context(), minMarks, maxMarks)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentsAboveMarks lists students with at least one mark above the threshold
// @Summary Students above a marks threshold
// @Tags students
// @Produce json
// @Param marks query number true "Threshold (exclusive)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students/above-marks [get]
func (c *StudentController) GetStudentsAboveMarks(ctx *gin.Context) {
	threshold, err := helpers.ParseFloatQuery(ctx, "marks")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid marks threshold", err)
		return
	}

	students, err := c.studentService.GetStudentsAboveMarks(ctx.Request.Context(), threshold)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentsBelowMarks lists students with at least one mark below the threshold
// @Summary Students below a marks threshold
// @Tags students
// @Produce json
// @Param marks query number true "Threshold (exclusive)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students/below-marks [get]
func (c *StudentController) GetStudentsBelowMarks(ctx *gin.Context) {
	threshold, err := helpers.ParseFloatQuery(ctx, "marks")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid marks threshold", err)
		return
	}

	students, err := c.studentService.GetStudentsBelowMarks(ctx.Request.Context(), threshold)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentMarks lists the marks of a student
// @Summary Get marks for a student
// @Tags marks
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentMarksResponse}
// @Router /students/{id}/marks [get]
func (c *StudentController) GetStudentMarks(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid student ID", err)
		return
	}

	marks, err := c.studentService.GetStudentMarks(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StudentMarksResponse{
		StudentID: id,
		Marks:     marks,
	}))
}

// ExportStudents streams an xlsx workbook with every student and mark
// @Summary Export students and marks
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	roster, err := c.studentService.GetRoster(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Header("Content-Type", export.ContentType)
	ctx.Status(http.StatusOK)

	if err := export.WriteStudentsWorkbook(ctx.Writer, roster.Students, roster.Marks); err != nil {
		// Headers are already sent; all we can do is record the failure
		c.logger.Error().Err(err).Msg("Failed to write students export")
		_ = ctx.Error(err)
	}
}
