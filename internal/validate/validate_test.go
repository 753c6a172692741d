package validate

import (
	"strings"
	"testing"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/model"
)

func TestStructValidCreateUser(t *testing.T) {
	req := model.CreateUserRequest{
		Username: "newcomer1",
		Email:    "newcomer1@local.ch",
		Password: "GoodPass1$",
	}
	if err := Struct(req); err != nil {
		t.Fatalf("Struct() unexpected error: %v", err)
	}
}

func TestStructPasswordRule(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all classes", "GoodPass1$", true},
		{"missing uppercase", "goodpass1$", false},
		{"missing lowercase", "GOODPASS1$", false},
		{"missing digit", "GoodPass!$", false},
		{"missing special", "GoodPass12", false},
		{"special outside allowed set", "GoodPass1#", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := model.CreateUserRequest{
				Username: "newcomer1",
				Email:    "newcomer1@local.ch",
				Password: tc.password,
			}
			err := Struct(req)
			if tc.valid && err != nil {
				t.Fatalf("Struct() unexpected error: %v", err)
			}
			if !tc.valid {
				if !apperror.IsValidation(err) {
					t.Fatalf("Struct() error = %v, want Validation", err)
				}
				ae, _ := apperror.FromError(err)
				if !strings.Contains(ae.Message, "password") {
					t.Errorf("Struct() message = %q, want it to name the password field", ae.Message)
				}
			}
		})
	}
}

func TestStructUsernameBounds(t *testing.T) {
	cases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"minimum length", "eightchr", true},
		{"maximum length", strings.Repeat("a", 20), true},
		{"too short", "short", false},
		{"too long", strings.Repeat("a", 21), false},
		{"uppercase rejected", "NewComer1", false},
		{"missing", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := model.CreateUserRequest{
				Username: tc.username,
				Email:    "someone@local.ch",
				Password: "GoodPass1$",
			}
			err := Struct(req)
			if tc.valid && err != nil {
				t.Fatalf("Struct() unexpected error: %v", err)
			}
			if !tc.valid && !apperror.IsValidation(err) {
				t.Fatalf("Struct() error = %v, want Validation", err)
			}
		})
	}
}

func TestStructEmail(t *testing.T) {
	req := model.CreateUserRequest{
		Username: "newcomer1",
		Email:    "not-an-email",
		Password: "GoodPass1$",
	}
	err := Struct(req)
	if !apperror.IsValidation(err) {
		t.Fatalf("Struct() error = %v, want Validation", err)
	}
}

func TestStructTitleBounds(t *testing.T) {
	cases := []struct {
		name  string
		title string
		valid bool
	}{
		{"minimum length", "Eight ch", true},
		{"maximum length", strings.Repeat("t", 50), true},
		{"too short", "Short", false},
		{"too long", strings.Repeat("t", 51), false},
		{"missing", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := model.CreateTodoRequest{Title: tc.title}
			err := Struct(req)
			if tc.valid && err != nil {
				t.Fatalf("Struct() unexpected error: %v", err)
			}
			if !tc.valid && !apperror.IsValidation(err) {
				t.Fatalf("Struct() error = %v, want Validation", err)
			}
		})
	}
}

func TestStructDescriptionMax(t *testing.T) {
	req := model.CreateTodoRequest{
		Title:       "Long enough title",
		Description: strings.Repeat("d", 151),
	}
	err := Struct(req)
	if !apperror.IsValidation(err) {
		t.Fatalf("Struct() error = %v, want Validation", err)
	}
}

func TestStructPartialUpdateSkipsNilFields(t *testing.T) {
	// An empty patch carries no fields, so nothing can fail validation.
	if err := Struct(model.UpdateTodoRequest{}); err != nil {
		t.Fatalf("Struct() unexpected error: %v", err)
	}
}

func TestStructJoinsMultipleFailures(t *testing.T) {
	req := model.CreateUserRequest{
		Username: "short",
		Email:    "not-an-email",
		Password: "weak",
	}
	err := Struct(req)
	if !apperror.IsValidation(err) {
		t.Fatalf("Struct() error = %v, want Validation", err)
	}
	ae, _ := apperror.FromError(err)
	for _, field := range []string{"username", "email", "password"} {
		if !strings.Contains(ae.Message, field) {
			t.Errorf("Struct() message %q does not mention %q", ae.Message, field)
		}
	}
}
