// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"github.com/symbianarchive/e32sis/schema"
)

// SISFileData holds one file's (possibly compressed) payload bytes.
type SISFileData struct {
	compressed *SISCompressed
}

func (fd *SISFileData) parseBody(r *schema.Reader, frameEnd int64) error {
	c, err := parseSISCompressedField(r)
	if err != nil {
		return err
	}
	fd.compressed = c
	return nil
}

// Bytes returns the file's decompressed payload.
func (fd *SISFileData) Bytes() ([]byte, error) {
	return fd.compressed.decodeUnknownPayload()
}

// SISDataUnit is one language/option variant's worth of file payloads.
type SISDataUnit struct {
	FileData []*SISFileData
}

func (du *SISDataUnit) parseBody(r *schema.Reader, frameEnd int64) error {
	fds, err := parseSISArrayField[*SISFileData](r, FieldSISFileData)
	if err != nil {
		return err
	}
	du.FileData = fds
	return nil
}

// SISData is the top-level container of every data unit's file payloads.
type SISData struct {
	DataUnits []*SISDataUnit
}

func (d *SISData) parseBody(r *schema.Reader, frameEnd int64) error {
	units, err := parseSISArrayField[*SISDataUnit](r, FieldSISDataUnit)
	if err != nil {
		return err
	}
	d.DataUnits = units
	return nil
}

// SISController is the installer's decision logic: package info, supported
// options and languages, prerequisites, properties, an optional logo, the
// install block tree, trailing signature/certificate chain, and the data
// index it corresponds to.
type SISController struct {
	Info          *SISInfo
	Options       *SISSupportedOptions
	Languages     *SISSupportedLanguages
	Prerequisites *SISPrerequisites
	Properties    *SISProperties
	Logo          *SISLogo
	InstallBlock  *SISInstallBlock
	Signature0    *SISSignatureCertificateChain
	DataIndex     *SISDataIndex
}

func (c *SISController) parseBody(r *schema.Reader, frameEnd int64) error {
	info, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Info, err = expectSISField[*SISInfo](info, FieldSISInfo); err != nil {
		return err
	}

	options, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Options, err = expectSISField[*SISSupportedOptions](options, FieldSISSupportedOptions); err != nil {
		return err
	}

	languages, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Languages, err = expectSISField[*SISSupportedLanguages](languages, FieldSISSupportedLanguages); err != nil {
		return err
	}

	prereqs, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Prerequisites, err = expectSISField[*SISPrerequisites](prereqs, FieldSISPrerequisites); err != nil {
		return err
	}

	props, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Properties, err = expectSISField[*SISProperties](props, FieldSISProperties); err != nil {
		return err
	}

	// Logo is optional: SkipNextIfByte peeks whether the next tagged
	// record is actually the InstallBlock that follows it.
	if !r.SkipNextIfByte(byte(FieldSISInstallBlock & 0xff)) {
		logo, err := parseSISField(r)
		if err != nil {
			return err
		}
		if c.Logo, err = expectSISField[*SISLogo](logo, FieldSISLogo); err != nil {
			return err
		}
	}

	block, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.InstallBlock, err = expectSISField[*SISInstallBlock](block, FieldSISInstallBlock); err != nil {
		return err
	}

	sig, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.Signature0, err = expectSISField[*SISSignatureCertificateChain](sig, FieldSISSignatureCertificateChain); err != nil {
		return err
	}

	di, err := parseSISField(r)
	if err != nil {
		return err
	}
	c.DataIndex, err = expectSISField[*SISDataIndex](di, FieldSISDataIndex)
	return err
}

// SISContents is the single top-level record of a SIS package: checksums
// over the (still-compressed) controller and data sections, the compressed
// controller itself, and the file payload data.
type SISContents struct {
	ControllerChecksum *SISControllerChecksum
	DataChecksum       *SISDataChecksum
	controllerBlob     *SISCompressed
	Data               *SISData
}

func (c *SISContents) parseBody(r *schema.Reader, frameEnd int64) error {
	cc, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.ControllerChecksum, err = expectSISField[*SISControllerChecksum](cc, FieldSISControllerChecksum); err != nil {
		return err
	}

	dc, err := parseSISField(r)
	if err != nil {
		return err
	}
	if c.DataChecksum, err = expectSISField[*SISDataChecksum](dc, FieldSISDataChecksum); err != nil {
		return err
	}

	c.controllerBlob, err = parseSISCompressedField(r)
	if err != nil {
		return err
	}

	data, err := parseSISField(r)
	if err != nil {
		return err
	}
	c.Data, err = expectSISField[*SISData](data, FieldSISData)
	return err
}

// Controller decompresses and parses this package's controller.
func (c *SISContents) Controller() (*SISController, error) {
	return c.controllerBlob.decodeController()
}
