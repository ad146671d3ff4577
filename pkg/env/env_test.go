package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("PETPARADISE_TEST_ENV_VALUE", "  console ")
	if got := Get("PETPARADISE_TEST_ENV_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
	t.Setenv("PETPARADISE_TEST_ENV_VALUE", "   ")
	if got := Get("PETPARADISE_TEST_ENV_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
