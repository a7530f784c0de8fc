package textutil

import "testing"

func TestNormalizeTurkish(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Merhaba Dünya", "merhaba dunya"},
		{"İyi günler", "iyi gunler"},
		{"ŞEKER", "seker"},
		{"çığır", "cigir"},
		{"Üzgünüm", "uzgunum"},
		{"hello", "hello"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTurkish(tt.in); got != tt.want {
			t.Errorf("NormalizeTurkish(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeForMatching(t *testing.T) {
	if got := NormalizeForMatching("Nasılsın?"); got != "nasilsin?" {
		t.Errorf("NormalizeForMatching() = %q, want %q", got, "nasilsin?")
	}
}
