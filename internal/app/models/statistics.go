package models

// DepartmentClassCount is one row of the department x class year breakdown
type DepartmentClassCount struct {
	Department string `json:"department"`
	ClassYear  int    `json:"class_year"`
	Count      int64  `json:"count"`
}

// DepartmentCount is one row of the per-department breakdown
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// ClassYearCount is one row of the per-class-year breakdown
type ClassYearCount struct {
	ClassYear int   `json:"class_year"`
	Count     int64 `json:"count"`
}

// StudentStatistics groups student counts three independent ways plus a total
type StudentStatistics struct {
	ByDepartmentAndClass []DepartmentClassCount `json:"byDepartmentAndClass"`
	ByDepartment         []DepartmentCount      `json:"byDepartment"`
	ByClassYear          []ClassYearCount       `json:"byClassYear"`
	TotalStudents        int64                  `json:"totalStudents"`
}

// Roster is every student and every mark read from one snapshot
type Roster struct {
	Students []*Student
	Marks    []*Mark
}
