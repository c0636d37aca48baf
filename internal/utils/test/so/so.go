// Package so adapts the smartystreets assertions for use with `testing.TB`
package so

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/smartystreets/assertions"
	"github.com/smartystreets/goconvey/convey/gotest"
)

// Assertion is a func that checks some condition for use in a test
type Assertion func(actual interface{}, expected ...interface{}) string

// set of supported assertions
var (
	ShouldEqual            Assertion = assertions.ShouldEqual
	ShouldNotEqual         Assertion = assertions.ShouldNotEqual
	ShouldResemble         Assertion = assertions.ShouldResemble
	ShouldBeNil            Assertion = assertions.ShouldBeNil
	ShouldNotBeNil         Assertion = assertions.ShouldNotBeNil
	ShouldBeTrue           Assertion = assertions.ShouldBeTrue
	ShouldBeFalse          Assertion = assertions.ShouldBeFalse
	ShouldBeEmpty          Assertion = assertions.ShouldBeEmpty
	ShouldContainKey       Assertion = assertions.ShouldContainKey
	ShouldContain          Assertion = assertions.ShouldContain
	ShouldHaveLength       Assertion = assertions.ShouldHaveLength
	ShouldStartWith        Assertion = assertions.ShouldStartWith
	ShouldContainSubstring Assertion = assertions.ShouldContainSubstring
)

type failureView struct {
	Message  string `json:"Message"`
	Expected string `json:"Expected"`
	Actual   string `json:"Actual"`
}

var failedAssertionFormatter = color.New(color.FgYellow).SprintFunc()

// So runs an assertion and fails the test if necessary
func So(t testing.TB, actual interface{}, assert Assertion, expected ...interface{}) {
	t.Helper()

	result := assert(actual, expected...)
	if result == "" {
		return
	}

	message := result
	var fv failureView
	if err := json.Unmarshal([]byte(result), &fv); err == nil {
		message = fv.Message
	}

	file, line, _ := gotest.ResolveExternalCaller()
	t.Fatal(failedAssertionFormatter(fmt.Sprintf(
		"\nName: %s\n* %s\nLine %d:\n%s\n",
		t.Name(),
		file,
		line,
		message,
	)))
}
