package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

var (
	yearCodeRe = regexp.MustCompile(`^\d{4}-\d{4}$`)
	tokenRe    = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// ValidateAcademicYearCode checks the "YYYY-YYYY" format and that the two
// years are consecutive.
func ValidateAcademicYearCode(code string) error {
	if !yearCodeRe.MatchString(code) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidYearCode, code)
	}

	parts := strings.SplitN(code, "-", 2)
	start, _ := strconv.Atoi(parts[0])
	end, _ := strconv.Atoi(parts[1])
	if end != start+1 {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidYearCode, code)
	}

	return nil
}

// AwardYearFromCode derives the year of award from an academic year code:
// the second of the two years ("2023-2024" awards in 2024).
func AwardYearFromCode(code string) (int, error) {
	if err := ValidateAcademicYearCode(code); err != nil {
		return 0, err
	}
	year, err := strconv.Atoi(code[5:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidYearCode, code)
	}
	return year, nil
}

// IsVerificationToken reports whether s has the shape of a verification
// identifier: exactly 32 lowercase hex characters. Anything else must be
// rejected before touching storage.
func IsVerificationToken(s string) bool {
	return tokenRe.MatchString(s)
}
