package lib

import (
	"sort"
	"strings"
)

var registry = make(map[string]string)

// Function is a tool the multi-call binary can run
type Function struct {
	Name, Short string
}

type Functions []Function

func (f Functions) String() string {
	builder := strings.Builder{}
	for i, fn := range f {
		if i != 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fn.Name)
	}
	return builder.String()
}

// RegisterFunction adds a tool; registering a name twice keeps the first description
func RegisterFunction(function, short string) {
	if _, ok := registry[function]; ok {
		return
	}
	registry[function] = short
}

// RegisteredFunctions returns a copy of the registered functions, sorted by name
func RegisteredFunctions() Functions {
	fns := make(Functions, 0, len(registry))
	for name, short := range registry {
		fns = append(fns, Function{Name: name, Short: short})
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}
