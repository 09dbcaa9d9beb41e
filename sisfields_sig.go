// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"crypto/x509/pkix"

	"go.mozilla.org/pkcs7"

	"github.com/symbianarchive/e32sis/schema"
)

// SISCertificateChain carries a package's embedded Authenticode-style
// PKCS#7 certificate chain, structurally decoded for inspection. Signature
// verification is out of scope per spec's Non-goals; CertificateData.Blob
// holds the raw DER bytes regardless of whether parsing as PKCS#7 below
// succeeds.
type SISCertificateChain struct {
	CertificateData *SISBlob

	// Subjects holds the parsed chain's certificate subjects, in the order
	// pkcs7.Parse returns them; nil if the blob did not parse as PKCS#7
	// (some SIS signing tools embed raw X.509 DER instead).
	Subjects []pkix.Name
}

func (c *SISCertificateChain) parseBody(r *schema.Reader, frameEnd int64) error {
	blob, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.CertificateData, err = expectSISField[*SISBlob](blob, FieldSISBlob); err != nil {
		return err
	}

	if p7, err := pkcs7.Parse(c.CertificateData.Blob); err == nil {
		for _, cert := range p7.Certificates {
			c.Subjects = append(c.Subjects, cert.Subject)
		}
	}
	return nil
}

// SISSignatureAlgorithm names the algorithm identifier a signature was
// produced with, e.g. "1.2.840.113549.1.1.5" (SHA-1 with RSA).
type SISSignatureAlgorithm struct {
	AlgorithmIdentifier *SISString
}

func (a *SISSignatureAlgorithm) parseBody(r *schema.Reader, frameEnd int64) error {
	id, err := parseSISField(r)
	if err != nil {
		return err
	}
	a.AlgorithmIdentifier, err = expectSISField[*SISString](id, FieldSISString)
	return err
}

// SISSignature is one signature over the package's controller/data
// checksums: the algorithm it was produced with and the raw signature
// bytes.
type SISSignature struct {
	SignatureAlgorithm *SISSignatureAlgorithm
	SignatureData      *SISBlob
}

func (s *SISSignature) parseBody(r *schema.Reader, frameEnd int64) error {
	algo, err := parseSISField(r)
	if err != nil {
		return err
	}
	if s.SignatureAlgorithm, err = expectSISField[*SISSignatureAlgorithm](algo, FieldSISSignatureAlgorithm); err != nil {
		return err
	}

	data, err := parseSISField(r)
	if err != nil {
		return err
	}
	s.SignatureData, err = expectSISField[*SISBlob](data, FieldSISBlob)
	return err
}

// SISSignatureCertificateChain is a controller's trailing signature block:
// every signature produced over it, and the certificate chain to verify
// them against (verification itself is out of scope).
type SISSignatureCertificateChain struct {
	Signatures       []*SISSignature
	CertificateChain *SISCertificateChain
}

func (s *SISSignatureCertificateChain) parseBody(r *schema.Reader, frameEnd int64) error {
	sigs, err := parseSISArrayField[*SISSignature](r, FieldSISSignature)
	if err != nil {
		return err
	}
	s.Signatures = sigs

	chain, err := parseSISField(r)
	if err != nil {
		return err
	}
	s.CertificateChain, err = expectSISField[*SISCertificateChain](chain, FieldSISCertificateChain)
	return err
}
