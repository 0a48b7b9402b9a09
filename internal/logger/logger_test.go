package logger

import "testing"

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  interface{}
		want interface{}
	}{
		{"password", "password", "hunter2", "[REDACTED]"},
		{"access token", "access_token", "abc", "[REDACTED]"},
		{"email", "user_email", "alice@example.com", "[REDACTED]"},
		{"plain key", "recipe_id", 42, 42},
		{"jwt valued", "note", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig", "[REDACTED]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := sanitizeKVs([]interface{}{tc.key, tc.val})
			if len(out) != 2 {
				t.Fatalf("expected 2 elements, got %d", len(out))
			}
			if out[1] != tc.want {
				t.Fatalf("value = %v, want %v", out[1], tc.want)
			}
		})
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"password", "hunter2", "dangling"})
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("value = %v, want [REDACTED]", out[1])
	}
	if out[2] != "dangling" {
		t.Fatalf("dangling element must pass through, got %v", out[2])
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if looksLikeJWT("short.str.x") {
		t.Fatalf("short segments must not look like a JWT")
	}
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig") {
		t.Fatalf("expected JWT shape to be detected")
	}
	if looksLikeJWT("") {
		t.Fatalf("empty string is not a JWT")
	}
}
