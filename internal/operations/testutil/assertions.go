package testutil

import (
	"reflect"
	"strings"
	"testing"

	"surveyprep/internal/operations"
)

// AssertStepStatus verifies a step has the expected status
func AssertStepStatus(t *testing.T, step *operations.StepState, expected operations.StepStatus) {
	t.Helper()
	if step == nil {
		t.Fatal("step state is nil")
	}
	if got := step.GetStatus(); got != expected {
		t.Errorf("step %s status = %v, want %v", step.ID, got, expected)
	}
}

// AssertRunStatus verifies a run has the expected status
func AssertRunStatus(t *testing.T, state *operations.RunState, expected operations.RunStatus) {
	t.Helper()
	if state == nil {
		t.Fatal("run state is nil")
	}
	if got := state.GetStatus(); got != expected {
		t.Errorf("run status = %v, want %v", got, expected)
	}
}

// AssertErrorContains verifies an error contains a substring
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("error %q does not contain %q", err.Error(), substr)
	}
}

// AssertErrorType verifies an error is an OperationError of the given type
func AssertErrorType(t *testing.T, err error, expected operations.ErrorType) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", expected)
	}
	if got := operations.GetErrorType(err); got != expected {
		t.Errorf("error type = %v, want %v (%v)", got, expected, err)
	}
}

// AssertNoError fails the test on a non-nil error
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertEqual compares two values with reflect.DeepEqual
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// AssertNotNil fails the test on a nil value
func AssertNotNil(t *testing.T, v interface{}) {
	t.Helper()
	if v == nil {
		t.Fatal("expected non-nil value")
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			t.Fatal("expected non-nil value")
		}
	}
}
