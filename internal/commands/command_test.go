package commands

import (
	"errors"
	"testing"
)

func TestParseTake(t *testing.T) {
	cmd, err := Parse("/take vitamin d3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypeTake || cmd.Take == nil || cmd.Take.Target != "vitamin d3" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseAddWithDosage(t *testing.T) {
	cmd, err := Parse("add Magnesium 400mg at night")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Add == nil || cmd.Add.Name != "Magnesium" || cmd.Add.Dosage != "400mg at night" {
		t.Fatalf("unexpected add args: %#v", cmd.Add)
	}
}

func TestParseRemindValidatesTime(t *testing.T) {
	cmd, err := Parse("/remind magnesium 22:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Remind == nil || cmd.Remind.Target != "magnesium" || cmd.Remind.Time != "22:00" {
		t.Fatalf("unexpected remind args: %#v", cmd.Remind)
	}

	_, err = Parse("/remind magnesium 25:00")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid_argument, got: %v", err)
	}
}

func TestParseImport(t *testing.T) {
	cmd, err := Parse("/import vitamin c 500mg every morning at 8")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Import == nil || cmd.Import.Text != "vitamin c 500mg every morning at 8" {
		t.Fatalf("unexpected import args: %#v", cmd.Import)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input string
		code  ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"/frobnicate now", ErrCodeUnknownCommand},
		{"/take", ErrCodeInvalidArgument},
		{"/add", ErrCodeInvalidArgument},
		{"/remove", ErrCodeInvalidArgument},
		{"/remind zinc", ErrCodeInvalidArgument},
		{"/import", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.input)
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != tc.code {
			t.Fatalf("input %q: expected code %s, got %v", tc.input, tc.code, err)
		}
	}
}

func TestExecuteDispatchesToHandler(t *testing.T) {
	cmd, err := Parse("/take zinc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := Execute(cmd, Handlers{
		Take: func(a TakeArgs) (Result, error) {
			return Result{Message: "took " + a.Target}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Message != "took zinc" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("/remove zinc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler_missing, got: %v", err)
	}
}
