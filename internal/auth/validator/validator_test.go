package validator

import (
	"testing"

	"sakkanal_backend/platform/validator"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"short1!":       false,
		"alllowercase":  false,
		"NoDigits!!":    false,
		"NoSpecial12":   false,
		"Sakkanal#2024": true,
	}
	for input, want := range cases {
		if got := IsStrongPassword(input); got != want {
			t.Fatalf("IsStrongPassword(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestRegisterAddsTag(t *testing.T) {
	val := validator.New()
	if err := Register(val); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	type req struct {
		Password string `json:"password" validate:"strongpassword"`
	}
	if err := val.Struct(req{Password: "weak"}); err == nil {
		t.Fatalf("expected weak password to fail")
	}
	if err := val.Struct(req{Password: "Sakkanal#2024"}); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}
