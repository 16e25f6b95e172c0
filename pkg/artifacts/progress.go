package artifacts

import (
	"strconv"
	"strings"
)

// ProgressMessage describes a download of user and internal dependencies:
//
//	ProgressMessage(1, 1) // "Downloading one dependency and one internal dependency"
//	ProgressMessage(2, 0) // "Downloading 2 dependencies"
//	ProgressMessage(0, 1) // "Downloading one internal dependency"
//
// It returns "" when there is nothing to download.
func ProgressMessage(user, internal int) string {
	var clauses []string
	if user > 0 {
		clauses = append(clauses, countDependencies(user, ""))
	}
	if internal > 0 {
		clauses = append(clauses, countDependencies(internal, "internal "))
	}
	if len(clauses) == 0 {
		return ""
	}
	return "Downloading " + strings.Join(clauses, " and ")
}

func countDependencies(n int, adjective string) string {
	if n == 1 {
		return "one " + adjective + "dependency"
	}
	return strconv.Itoa(n) + " " + adjective + "dependencies"
}
