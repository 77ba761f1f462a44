package main

import "fmt"

type stringValidator struct {
	problems []string
	prefix   string
}

func (v *stringValidator) setPrefix(prefix string) {
	v.prefix = prefix
}

func (v *stringValidator) addProblem(format string, args ...interface{}) {
	v.problems = append(v.problems, v.prefix+fmt.Sprintf(format, args...))
}

func (v *stringValidator) requireValue(value string, label string) {
	if value == "" {
		v.addProblem("missing %s", label)
	}
}

func (v *stringValidator) requireOneOf(value string, label string, allowed ...string) {
	if sliceContainsString(allowed, value, true) == false {
		v.addProblem("invalid %s: [%s] (expected one of: %v)", label, value, allowed)
	}
}

func (v *stringValidator) Problems() []string {
	return v.problems
}

func (v *stringValidator) Invalid() bool {
	return len(v.problems) > 0
}
