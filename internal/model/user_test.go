package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
		{strings.Repeat("p", 72), false},
		{strings.Repeat("p", 73), true},
		{strings.Repeat("ž", 40), true},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"bo@x.com", false},
		{"  bo@x.com  ", false},
		{"first.last@mail.uni-lj.si", false},
		{"", true},
		{"bo", true},
		{"bo.x.com", true},
		{"bo@", true},
		{"@x.com", true},
		{"bo@x", true},
		{"bo@x.", true},
		{"bo@.com", true},
		{"bo@@x.com", true},
		{"b o@x.com", true},
		{"bo@-x.com", true},
	}

	for _, tt := range tests {
		_, err := ValidateEmail("email", tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateEmail(%q) error %v does not match ErrValidation", tt.email, err)
		}
	}
}

func TestValidateLength(t *testing.T) {
	got, err := ValidateLength("name", "  Laptop  ", 1, 150)
	if err != nil {
		t.Fatalf("ValidateLength: %v", err)
	}
	if got != "Laptop" {
		t.Errorf("expected trimmed 'Laptop', got %q", got)
	}

	if _, err := ValidateLength("name", "   ", 1, 150); err == nil {
		t.Error("expected error for blank name")
	}

	long := make([]rune, 151)
	for i := range long {
		long[i] = 'ž'
	}
	if _, err := ValidateLength("name", string(long), 1, 150); err == nil {
		t.Error("expected error for 151-rune name")
	}
	if _, err := ValidateLength("name", string(long[:150]), 1, 150); err != nil {
		t.Errorf("150 runes should pass, got %v", err)
	}

	var ve *ValidationError
	_, err = ValidateLength("finder_name", "B", 2, 100)
	if !errors.As(err, &ve) || ve.Field != "finder_name" {
		t.Errorf("expected ValidationError for finder_name, got %v", err)
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", CategoryOther, false},
		{"electronics", "Electronics", false},
		{"Keys", "Keys", false},
		{"Spaceships", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ValidateCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateItemStatus(t *testing.T) {
	for _, s := range ItemStatuses {
		if err := ValidateItemStatus(s); err != nil {
			t.Errorf("ValidateItemStatus(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "banana", "Active", "damaged"} {
		if err := ValidateItemStatus(s); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateItemStatus(%q) = %v, want ErrValidation", s, err)
		}
	}
}
