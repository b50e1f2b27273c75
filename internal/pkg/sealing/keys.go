// Package sealing applies and checks the digital seal on diploma
// documents using the institution's PKI material.
package sealing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// Credentials holds the private key and certificate used to seal
// documents.
type Credentials struct {
	Signer      crypto.Signer
	Certificate *x509.Certificate
	// Chain holds intermediate certificates found after the leaf in
	// the certificate file, in file order.
	Chain []*x509.Certificate
}

// LoadCredentials reads PEM-encoded key and certificate files from disk.
func LoadCredentials(keyPath, certPath string) (*Credentials, error) {
	signer, err := loadPrivateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key %s: %w", keyPath, err)
	}

	leaf, chain, err := loadCertificates(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing certificate %s: %w", certPath, err)
	}

	return &Credentials{Signer: signer, Certificate: leaf, Chain: chain}, nil
}

func loadPrivateKey(path string) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		switch k := key.(type) {
		case *rsa.PrivateKey:
			return k, nil
		case *ecdsa.PrivateKey:
			return k, nil
		default:
			return nil, fmt.Errorf("unsupported private key type %T", key)
		}
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

func loadCertificates(path string) (*x509.Certificate, []*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var certs []*x509.Certificate
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, nil, err
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, nil, fmt.Errorf("no certificates found")
	}
	return certs[0], certs[1:], nil
}
