package sealing

import (
	"bytes"
	"fmt"
	"io"

	"github.com/digitorus/pdfsign"

	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

// CheckResult summarizes the signature state of an uploaded document.
type CheckResult struct {
	SignatureCount int
	SignerNames    []string
}

// Check verifies the signatures of the PDF in data. It returns
// apperrors.ErrNoSignature when the document is unsigned and
// apperrors.ErrSignatureInvalid when a signature does not verify.
// Institution certificates are self-managed, so roots embedded in the
// document are accepted.
func Check(data []byte) (*CheckResult, error) {
	return CheckReader(bytes.NewReader(data), int64(len(data)))
}

// CheckReader verifies signatures from an io.ReaderAt.
func CheckReader(reader io.ReaderAt, size int64) (*CheckResult, error) {
	doc, err := pdfsign.Open(reader, size)
	if err != nil {
		// An unreadable upload cannot carry a verifiable signature.
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNoSignature, err)
	}

	result := doc.Verify().
		TrustSignatureTime(true).
		TrustSelfSigned(true)

	if result.Count() == 0 {
		return nil, apperrors.ErrNoSignature
	}

	if !result.Valid() {
		if verr := result.Err(); verr != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrSignatureInvalid, verr)
		}
		return nil, apperrors.ErrSignatureInvalid
	}

	check := &CheckResult{SignatureCount: result.Count()}
	for _, sig := range result.Signatures() {
		check.SignerNames = append(check.SignerNames, sig.SignerName)
	}
	return check, nil
}
