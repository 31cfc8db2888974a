package test

import (
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"testing"
)

// AssertCmpEqual compares with go-cmp instead of reflect.DeepEqual, so types
// that define an Equal method (like the amount types) compare by value and a
// failure prints a readable diff.
func AssertCmpEqual(t *testing.T, expected interface{}, actual interface{}, msgAndArgs ...interface{}) bool {
	if cmp.Equal(expected, actual) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Not equal: \n"+
		"expected: %v\n"+
		"actual  : %v\n"+
		"diff    : %s", expected, actual, cmp.Diff(expected, actual)), msgAndArgs...)
}

func RequireCmpEqual(t *testing.T, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	if AssertCmpEqual(t, expected, actual, msgAndArgs...) {
		return
	}
	t.FailNow()
}
