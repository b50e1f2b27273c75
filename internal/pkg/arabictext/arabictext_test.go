package arabictext

import "testing"

func TestHasArabic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"latin only", "Jean Dupont", false},
		{"empty", "", false},
		{"digits", "1001", false},
		{"arabic", "محمد ولد أحمد", true},
		{"mixed", "NNI: ١٢٣ محمد", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasArabic(tt.in); got != tt.want {
				t.Errorf("HasArabic(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShapePassesLatinThrough(t *testing.T) {
	in := "Licence en Informatique 2024"
	if got := Shape(in); got != in {
		t.Errorf("Shape must not alter non-Arabic text: got %q", got)
	}
}

func TestShapeIsStable(t *testing.T) {
	in := "الرقم الوطني: 1001"
	first := Shape(in)
	second := Shape(in)
	if first != second {
		t.Errorf("Shape must be deterministic: %q vs %q", first, second)
	}
	if first == "" {
		t.Error("Shape must not drop content")
	}
}

func TestShapeKeepsAsciiDigitRunsReadable(t *testing.T) {
	in := "رقم التسجيل: 1001"
	out := Shape(in)

	// The digit run must survive in logical order.
	if !containsSub(out, "1001") {
		t.Errorf("digit run lost or reversed in %q", out)
	}
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
