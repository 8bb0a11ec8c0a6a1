package env

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvStringOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_STRING", "value")
	if got := GetEnvStringOrDefault("TEST_ENV_STRING", "fallback"); got != "value" {
		t.Errorf("got %q, want value", got)
	}
	if got := GetEnvStringOrDefault("TEST_ENV_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}

	t.Setenv("TEST_ENV_BLANK", "   ")
	if got := GetEnvStringOrDefault("TEST_ENV_BLANK", "fallback"); got != "fallback" {
		t.Errorf("blank value: got %q, want fallback", got)
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "true")
	if !GetEnvBoolOrDefault("TEST_ENV_BOOL", false) {
		t.Error("got false, want true")
	}

	t.Setenv("TEST_ENV_BOOL", "not-a-bool")
	if !GetEnvBoolOrDefault("TEST_ENV_BOOL", true) {
		t.Error("invalid value should fall back to the default")
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "42")
	if got := GetEnvIntOrDefault("TEST_ENV_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := GetEnvIntOrDefault("TEST_ENV_INT_UNSET", 7); got != 7 {
		t.Errorf("got %d, want 7", got)
	}

	t.Setenv("TEST_ENV_INT", "forty-two")
	if got := GetEnvIntOrDefault("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("invalid value: got %d, want 7", got)
	}
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_DURATION", "150ms")
	if got := GetEnvDurationOrDefault("TEST_ENV_DURATION", time.Second); got != 150*time.Millisecond {
		t.Errorf("got %v, want 150ms", got)
	}

	t.Setenv("TEST_ENV_DURATION", "junk")
	if got := GetEnvDurationOrDefault("TEST_ENV_DURATION", time.Second); got != time.Second {
		t.Errorf("invalid value: got %v, want 1s", got)
	}
}

func TestGetEnvStringSliceOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_SLICE", "a, b ,,c")
	want := []string{"a", "b", "c"}
	if got := GetEnvStringSliceOrDefault("TEST_ENV_SLICE", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	t.Setenv("TEST_ENV_SLICE", " , ,")
	fallback := []string{"x"}
	if got := GetEnvStringSliceOrDefault("TEST_ENV_SLICE", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("all-empty value: got %v, want %v", got, fallback)
	}
}

func TestMustGetEnvStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustGetEnvString did not panic for a missing variable")
		}
	}()
	MustGetEnvString("TEST_ENV_DEFINITELY_UNSET")
}
