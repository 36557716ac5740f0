package analysis

import (
	"strconv"
	"strings"
)

// UnknownModule is reported for test numbers outside every module range
const UnknownModule = "Unknown"

// moduleRanges are the inclusive test-number ranges of the VAMOS test modules
var moduleRanges = []struct {
	name     string
	from, to int
}{
	{"VAMOS_PU", 6000, 6999},
	{"VAMOS_CFS", 7000, 7999},
	{"VAMOS_IDD", 10000, 19999},
	{"VAMOS_PMU", 20000, 29999},
	{"VAMOS_GPIO", 30000, 39999},
	{"VAMOS_OSC", 40000, 49999},
	{"VAMOS_ATPG", 50000, 59999},
	{"VAMOS_IDDQ", 60000, 69999},
	{"VAMOS_MEM", 70000, 79999},
	{"VAMOS_UM", 80000, 89999},
	{"VAMOS_LIB", 90000, 99999},
	{"VAMOS_spare", 100000, 109999},
}

// ModuleFor maps a test number such as "20031" or "20031.0" to its module
func ModuleFor(testNumber string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(testNumber), 64)
	if err != nil {
		return UnknownModule
	}
	n := int(f)
	for _, r := range moduleRanges {
		if n >= r.from && n <= r.to {
			return r.name
		}
	}
	return UnknownModule
}
