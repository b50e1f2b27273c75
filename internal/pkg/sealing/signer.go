package sealing

import (
	"bytes"
	"fmt"

	"github.com/digitorus/pdfsign"

	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

// Sealer applies the institutional signature to rendered documents.
type Sealer struct {
	creds    *Credentials
	reason   string
	location string
}

// NewSealer creates a Sealer using the given credentials. Reason and
// location are embedded in every signature.
func NewSealer(creds *Credentials, reason, location string) *Sealer {
	return &Sealer{creds: creds, reason: reason, location: location}
}

// Seal signs the PDF in data and returns the sealed document.
func (s *Sealer) Seal(data []byte) ([]byte, error) {
	doc, err := pdfsign.Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSigningFailed, err)
	}

	doc.Sign(s.creds.Signer, s.creds.Certificate, s.creds.Chain...).
		Reason(s.reason).
		Location(s.location)

	var sealed bytes.Buffer
	if _, err := doc.Write(&sealed); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSigningFailed, err)
	}

	return sealed.Bytes(), nil
}
