package otp

import (
	"testing"
	"time"
)

func TestGenerateIsSixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q has leading zero; range must be 100000-999999", code)
		}
	}
}

func TestVerifyCodeSingleUse(t *testing.T) {
	now := time.Now()
	code := "482913"
	expire := now.Add(5 * time.Minute)

	stored := &code
	storedExpire := &expire
	if !VerifyCode(stored, storedExpire, code, now) {
		t.Fatal("fresh unexpired code must verify")
	}

	// Consumption clears both fields; the same code must then fail.
	stored, storedExpire = nil, nil
	if VerifyCode(stored, storedExpire, code, now) {
		t.Fatal("consumed code verified a second time")
	}
}

func TestVerifyCodeRejections(t *testing.T) {
	now := time.Now()
	code := "482913"
	live := now.Add(5 * time.Minute)
	dead := now.Add(-time.Second)

	cases := []struct {
		name   string
		stored *string
		expire *time.Time
		given  string
	}{
		{"wrong code", &code, &live, "000000"},
		{"expired", &code, &dead, code},
		{"empty presentation", &code, &live, ""},
		{"no code stored", nil, &live, code},
		{"no expiry stored", &code, nil, code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyCode(tc.stored, tc.expire, tc.given, now) {
				t.Fatal("expected rejection")
			}
		})
	}
}

func TestMaskContact(t *testing.T) {
	cases := map[string]string{
		"+15551234567": "****4567",
		"abc":          "****",
		"":             "****",
		"user@example.com": "****.com",
	}
	for in, want := range cases {
		if got := MaskContact(in); got != want {
			t.Errorf("MaskContact(%q) = %q, want %q", in, got, want)
		}
	}
}
