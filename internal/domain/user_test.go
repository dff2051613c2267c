package domain

import "testing"

func TestNormalizeUserKey(t *testing.T) {
	cases := map[string]string{
		"  Jane.Porter@Example.COM ": "jane.porter@example.com",
		"ADMIN":                      "admin",
		"":                           "",
		"  ":                         "",
	}
	for in, want := range cases {
		if got := NormalizeUserKey(in); got != want {
			t.Errorf("NormalizeUserKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestDisplayName(t *testing.T) {
	u := &User{FirstName: "Jane", LastName: "Porter", UserName: "jporter"}
	if got := u.DisplayName(); got != "Jane Porter" {
		t.Fatalf("expected full name, got %q", got)
	}

	u = &User{UserName: "jporter"}
	if got := u.DisplayName(); got != "jporter" {
		t.Fatalf("expected username fallback, got %q", got)
	}

	u = &User{FirstName: "Jane", UserName: "jporter"}
	if got := u.DisplayName(); got != "Jane" {
		t.Fatalf("expected trimmed partial name, got %q", got)
	}

	var nilUser *User
	if got := nilUser.DisplayName(); got != "" {
		t.Fatalf("nil user must have empty display name, got %q", got)
	}
}

func TestRoleChecksAreCaseInsensitive(t *testing.T) {
	if !IsAdministrator(" administrator ") {
		t.Fatalf("padded lowercase must match administrator")
	}
	if !IsVolunteer("VOLUNTEER") {
		t.Fatalf("uppercase must match volunteer")
	}
	if IsAdministrator("Volunteer") || IsVolunteer("Administrator") {
		t.Fatalf("roles must not cross-match")
	}
}
