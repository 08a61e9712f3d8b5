package profile

import "testing"

func TestValidateName(t *testing.T) {
	valid := []string{"main", "work", "a", "my-profile_2"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "Main", "has space", "über", "a/b", "x.y"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestPathsAreProfileScoped(t *testing.T) {
	a, b := DBPath("alpha"), DBPath("beta")
	if a == b {
		t.Errorf("DBPath must differ per profile, got %q twice", a)
	}
	if SocketPath("alpha") == SocketPath("beta") {
		t.Error("SocketPath must differ per profile")
	}
}
