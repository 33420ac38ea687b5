package domain

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain 10 digits", raw: "9812345678", want: "9812345678"},
		{name: "country prefix makes 12 digits", raw: "+91 98123-45678", wantErr: true},
		{name: "strips spaces and dashes", raw: "98123 45678", want: "9812345678"},
		{name: "leading 6 accepted", raw: "6000000000", want: "6000000000"},
		{name: "leading 9 accepted", raw: "9000000000", want: "9000000000"},
		{name: "leading 5 rejected", raw: "5812345678", wantErr: true},
		{name: "too short", raw: "981234567", wantErr: true},
		{name: "too long", raw: "98123456789", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters only", raw: "abcdefghij", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	for _, raw := range []string{"9812345678", "6000000000", "7777 777-777"} {
		once, err := NormalizePhone(raw)
		if err != nil {
			continue
		}
		twice, err := NormalizePhone(once)
		if err != nil {
			t.Fatalf("second normalization of %q failed: %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name+tag@example.co.in", "x@y.z", "weird!#$%@host.tld"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "plain", "no@dot", "two@@a.com", "spa ce@a.com", "@a.com"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestIsEmail(t *testing.T) {
	if !IsEmail("a@b.com") {
		t.Error("string with @ should classify as email")
	}
	if IsEmail("9812345678") {
		t.Error("digits should classify as phone")
	}
	// Classification is purely on @, malformed or not.
	if !IsEmail("@@@") {
		t.Error("classification only checks for @")
	}
}

func TestValidOTPFormat(t *testing.T) {
	if !ValidOTPFormat("123456") {
		t.Error("six digits should be valid")
	}
	if !ValidOTPFormat("000042") {
		t.Error("leading zeros should be valid")
	}
	for _, code := range []string{"1234", "1234567", "12345a", "", "12 456"} {
		if ValidOTPFormat(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}
