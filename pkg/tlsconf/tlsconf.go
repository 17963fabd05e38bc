package tlsconf

import (
	"crypto/tls"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/jornal-escolar/portal-api/pkg/config"
)

// Server builds a tls.Config from the configured certificate material.
// A PEM pair takes precedence over a PKCS#12 bundle; returns nil when no
// material is configured so the caller can serve plain HTTP.
func Server(cfg config.TLSConfig) (*tls.Config, error) {
	switch {
	case cfg.CertificateFile != "" && cfg.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(cfg.CertificateFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load certificate pair: %w", err)
		}
		return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
	case cfg.PKCS12File != "":
		raw, err := os.ReadFile(cfg.PKCS12File)
		if err != nil {
			return nil, fmt.Errorf("read pkcs12 bundle: %w", err)
		}
		key, cert, err := pkcs12.Decode(raw, cfg.PKCS12Password)
		if err != nil {
			return nil, fmt.Errorf("decode pkcs12 bundle: %w", err)
		}
		return &tls.Config{
			Certificates: []tls.Certificate{{
				Certificate: [][]byte{cert.Raw},
				PrivateKey:  key,
				Leaf:        cert,
			}},
			MinVersion: tls.VersionTLS12,
		}, nil
	default:
		return nil, nil
	}
}
