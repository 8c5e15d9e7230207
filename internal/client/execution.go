package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// newTransport returns a transport that verifies the server against caFile
// when it's set and presents the certificate in crtFile/keyFile when both
// are set; without any of them it's a plain transport.
func newTransport(caFile, crtFile, keyFile string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caFile == "" && crtFile == "" && keyFile == "" {
		return transport, nil
	}
	// TLS versions below 1.2 are considered insecure (RFC 7525)
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, errors.Wrap(err, "error while reading ca file")
		}
		tlsConfig.RootCAs = x509.NewCertPool()
		if !tlsConfig.RootCAs.AppendCertsFromPEM(pem) {
			return nil, errors.Errorf("no certificates found in %s", caFile)
		}
	}
	switch {
	case crtFile != "" && keyFile != "":
		certificate, err := tls.LoadX509KeyPair(crtFile, keyFile)
		if err != nil {
			return nil, errors.Wrap(err, "error while loading certificate")
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	case crtFile != "" || keyFile != "":
		return nil, errors.New("both a certificate and a key file are required")
	}
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}
