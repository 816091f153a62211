package helpers

import "strings"

// likeEscaper escapes the LIKE wildcards so user input only ever matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE/LIKE pattern matching value anywhere in the column.
// Use it with ESCAPE '\'.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
