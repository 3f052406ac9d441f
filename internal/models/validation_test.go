package models

import (
	"errors"
	"testing"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("progress", ErrInvalidProgress)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected errors.Is to match ErrInvalidProgress, got %v", err)
	}
}

func TestValidationErrorsNestedFields(t *testing.T) {
	nested := (Deadline{TaskID: "t1", Date: "2024-13-01", Progress: 0.5}).Validate()

	validation := &ValidationErrors{}
	validation.Add(IndexField("deadlines", 3), nested)

	list, ok := validation.Err().(*ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors type, got %T", validation.Err())
	}
	if len(list.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(list.Errors))
	}
	if list.Errors[0].Field != "deadlines[3].date" {
		t.Fatalf("expected field deadlines[3].date, got %q", list.Errors[0].Field)
	}
	if !errors.Is(list, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate cause, got %v", list)
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	var validation ValidationErrors
	if err := validation.Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestDeadlineValidate(t *testing.T) {
	tests := []struct {
		name     string
		deadline Deadline
		wantErr  error
	}{
		{name: "valid", deadline: Deadline{TaskID: "a", Date: "2024-01-01", Progress: 0.3}},
		{name: "missing id", deadline: Deadline{Date: "2024-01-01"}, wantErr: ErrMissingTaskID},
		{name: "bad date", deadline: Deadline{TaskID: "a", Date: "01/02/2024"}, wantErr: ErrInvalidDate},
		{name: "progress above one", deadline: Deadline{TaskID: "a", Date: "2024-01-01", Progress: 1.2}, wantErr: ErrInvalidProgress},
		{name: "negative progress", deadline: Deadline{TaskID: "a", Date: "2024-01-01", Progress: -0.1}, wantErr: ErrInvalidProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deadline.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := FormatDate(d); got != "2024-02-29" {
		t.Fatalf("FormatDate = %q", got)
	}
	if _, err := ParseDate("2023-02-29"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for non-leap day, got %v", err)
	}
}
