// Package services holds the record service shared by the REST controllers
// and the MCP tools.
//
// Services defined in this package:
//   - StudentService: students, their marks, searches and statistics
//
// Every operation runs in its own unit of work obtained from a UnitOfWork.
// Lookups report a missing record as a nil result, never as an error.
package services
