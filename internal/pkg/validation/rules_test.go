package validation

import (
	"errors"
	"testing"

	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

func TestValidateAcademicYearCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"2023-2024", false},
		{"1999-2000", false},
		{"2024-2024", true}, // not consecutive
		{"2024-2023", true}, // reversed
		{"2023/2024", true},
		{"23-24", true},
		{"", true},
		{"abcd-efgh", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateAcademicYearCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAcademicYearCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrInvalidYearCode) {
				t.Errorf("error must wrap ErrInvalidYearCode, got %v", err)
			}
		})
	}
}

func TestAwardYearFromCode(t *testing.T) {
	year, err := AwardYearFromCode("2023-2024")
	if err != nil {
		t.Fatalf("AwardYearFromCode() error = %v", err)
	}
	if year != 2024 {
		t.Errorf("AwardYearFromCode() = %d, want 2024", year)
	}

	if _, err := AwardYearFromCode("invalid"); err == nil {
		t.Error("AwardYearFromCode must fail on malformed codes")
	}
}

func TestIsVerificationToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"not-a-valid-token", false},
		{"0123456789ABCDEF0123456789ABCDEF", false}, // uppercase rejected
		{"0123456789abcdef0123456789abcde", false},  // 31 chars
		{"0123456789abcdef0123456789abcdef0", false}, // 33 chars
		{"", false},
		{"'; DROP TABLE diplomas; --", false},
	}

	for _, tt := range tests {
		if got := IsVerificationToken(tt.token); got != tt.want {
			t.Errorf("IsVerificationToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
