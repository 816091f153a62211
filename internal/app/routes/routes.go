package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	markController *controllers.MarkController,
	mcpHandler http.Handler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// MCP streamable HTTP endpoint; nil when the tool server is disabled
	if mcpHandler != nil {
		router.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.POST("", studentController.CreateStudent)

		// Static segments are registered before /:id
		students.GET("/statistics", studentController.GetStudentStatistics)
		students.GET("/search", studentController.SearchStudents)
		students.GET("/marks-range", studentController.GetStudentsByMarksRange)
		students.GET("/above-marks", studentController.GetStudentsAboveMarks)
		students.GET("/below-marks", studentController.GetStudentsBelowMarks)
		students.GET("/export", studentController.ExportStudents)

		students.GET("/:id", studentController.GetStudent)
		students.PATCH("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.GET("/:id/marks", studentController.GetStudentMarks)
	}

	marks := v1.Group("/marks")
	{
		marks.POST("", markController.AddMarks)
		marks.PATCH("/:id", markController.UpdateMarks)
	}
}
