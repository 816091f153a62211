package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// MarkController handles mark-related operations
type MarkController struct {
	studentService services.StudentRecordService
}

// NewMarkController creates a new MarkController
func NewMarkController(studentService services.StudentRecordService) *MarkController {
	return &MarkController{
		studentService: studentService,
	}
}

// AddMarks records a mark for a student
// @Summary Add marks for a student
// @Tags marks
// @Accept json
// @Produce json
// @Param request body dto.AddMarkRequest true "Mark information"
// @Success 201 {object} dto.APIResponse{data=models.Mark}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Student does not exist"
// @Router /marks [post]
func (c *MarkController) AddMarks(ctx *gin.Context) {
	var req dto.AddMarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, "Invalid mark data", err)
		return
	}

	mark, err := c.studentService.AddMarks(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(mark))
}

// UpdateMarks changes some fields of a mark
// @Summary Update a mark
// @Description Accepts any subset of subject, marks, semester
// @Tags marks
// @Accept json
// @Produce json
// @Param id path int true "Mark ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Mark}
// @Failure 400 {object} dto.APIResponse "Unknown or mistyped field"
// @Failure 404 {object} dto.APIResponse "Mark not found"
// @Router /marks/{id} [patch]
func (c *MarkController) UpdateMarks(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.RespondValidationError(ctx, "Invalid mark ID", err)
		return
	}

	var data map[string]any
	if err := ctx.ShouldBindJSON(&data); err != nil {
		middleware.RespondValidationError(ctx, "Invalid mark data", err)
		return
	}

	mark, err := c.studentService.UpdateMarks(ctx.Request.Context(), id, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if mark == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrMarkNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mark))
}
