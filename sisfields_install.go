// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"github.com/symbianarchive/e32sis/schema"
)

// SISInfo carries a package's identity: its UID, display names in every
// supported language, version, creation time, and install type/flags.
type SISInfo struct {
	UID              *SISUid
	VendorUniqueName *SISString
	Names            []*SISString
	VendorNames      []*SISString
	Version          *SISVersion
	CreationTime     *SISDateTime
	InstallType      uint8
	InstallFlags     uint8
}

func (info *SISInfo) parseBody(r *schema.Reader, frameEnd int64) error {
	uid, err := parseSISField(r)
	if err != nil {
		return err
	}
	if info.UID, err = expectSISField[*SISUid](uid, FieldSISUid); err != nil {
		return err
	}

	vun, err := parseSISField(r)
	if err != nil {
		return err
	}
	if info.VendorUniqueName, err = expectSISField[*SISString](vun, FieldSISString); err != nil {
		return err
	}

	if info.Names, err = parseSISArrayField[*SISString](r, FieldSISString); err != nil {
		return err
	}
	if info.VendorNames, err = parseSISArrayField[*SISString](r, FieldSISString); err != nil {
		return err
	}

	version, err := parseSISField(r)
	if err != nil {
		return err
	}
	if info.Version, err = expectSISField[*SISVersion](version, FieldSISVersion); err != nil {
		return err
	}

	created, err := parseSISField(r)
	if err != nil {
		return err
	}
	if info.CreationTime, err = expectSISField[*SISDateTime](created, FieldSISDateTime); err != nil {
		return err
	}

	if info.InstallType, err = r.ReadUint8(); err != nil {
		return err
	}
	info.InstallFlags, err = r.ReadUint8()
	return err
}

// SISSupportedLanguages lists every language variant a package supports.
type SISSupportedLanguages struct {
	Languages []*SISLanguage
}

func (l *SISSupportedLanguages) parseBody(r *schema.Reader, frameEnd int64) error {
	languages, err := parseSISArrayField[*SISLanguage](r, FieldSISLanguage)
	if err != nil {
		return err
	}
	l.Languages = languages
	return nil
}

// SISSupportedOption is one named install-time option variant.
type SISSupportedOption struct {
	Names []*SISString
}

func (o *SISSupportedOption) parseBody(r *schema.Reader, frameEnd int64) error {
	names, err := parseSISArrayField[*SISString](r, FieldSISString)
	if err != nil {
		return err
	}
	o.Names = names
	return nil
}

// SISSupportedOptions lists every option variant a package supports.
type SISSupportedOptions struct {
	Options []*SISSupportedOption
}

func (o *SISSupportedOptions) parseBody(r *schema.Reader, frameEnd int64) error {
	options, err := parseSISArrayField[*SISSupportedOption](r, FieldSISSupportedOption)
	if err != nil {
		return err
	}
	o.Options = options
	return nil
}

// SISDependency names a required UID, its acceptable version range, and a
// display name, used both for target-device and inter-package
// dependencies.
type SISDependency struct {
	UID             *SISUid
	VersionRange    *SISVersionRange
	DependencyNames []*SISString
}

func (d *SISDependency) parseBody(r *schema.Reader, frameEnd int64) error {
	uid, err := parseSISField(r)
	if err != nil {
		return err
	}
	if d.UID, err = expectSISField[*SISUid](uid, FieldSISUid); err != nil {
		return err
	}

	vr, err := parseSISField(r)
	if err != nil {
		return err
	}
	if d.VersionRange, err = expectSISField[*SISVersionRange](vr, FieldSISVersionRange); err != nil {
		return err
	}

	d.DependencyNames, err = parseSISArrayField[*SISString](r, FieldSISString)
	return err
}

// SISPrerequisites lists required target devices and required
// already-installed packages.
type SISPrerequisites struct {
	TargetDevices []*SISDependency
	Dependencies  []*SISDependency
}

func (p *SISPrerequisites) parseBody(r *schema.Reader, frameEnd int64) error {
	var err error
	if p.TargetDevices, err = parseSISArrayField[*SISDependency](r, FieldSISDependency); err != nil {
		return err
	}
	p.Dependencies, err = parseSISArrayField[*SISDependency](r, FieldSISDependency)
	return err
}

// SISProperties lists a controller's key/value property pairs.
type SISProperties struct {
	Properties []*SISProperty
}

func (p *SISProperties) parseBody(r *schema.Reader, frameEnd int64) error {
	props, err := parseSISArrayField[*SISProperty](r, FieldSISProperty)
	if err != nil {
		return err
	}
	p.Properties = props
	return nil
}

// SISFileDescription describes one file an install block installs: its
// target path, MIME type, optional capabilities (for executables), hash,
// and the index into SISData.DataUnits[0].FileData it is stored at.
// Capabilities is absent when the byte immediately following MIMEType is
// the low byte of the SISHash tag (SkipNextIfByte), per spec §4.7.
type SISFileDescription struct {
	Target             *SISString
	MIMEType           *SISString
	Capabilities       *SISCapabilities
	Hash               *SISHash
	Operation          uint32
	OperationOptions   uint32
	FileLength         uint64
	UncompressedLength uint64
	FileIndex          uint32
}

func (fd *SISFileDescription) parseBody(r *schema.Reader, frameEnd int64) error {
	target, err := parseSISField(r)
	if err != nil {
		return err
	}
	if fd.Target, err = expectSISField[*SISString](target, FieldSISString); err != nil {
		return err
	}

	mime, err := parseSISField(r)
	if err != nil {
		return err
	}
	if fd.MIMEType, err = expectSISField[*SISString](mime, FieldSISString); err != nil {
		return err
	}

	if !r.SkipNextIfByte(byte(FieldSISHash & 0xff)) {
		caps, err := parseSISField(r)
		if err != nil {
			return err
		}
		if fd.Capabilities, err = expectSISField[*SISCapabilities](caps, FieldSISCapabilities); err != nil {
			return err
		}
	}

	hash, err := parseSISField(r)
	if err != nil {
		return err
	}
	if fd.Hash, err = expectSISField[*SISHash](hash, FieldSISHash); err != nil {
		return err
	}

	if fd.Operation, err = r.ReadUint32(); err != nil {
		return err
	}
	if fd.OperationOptions, err = r.ReadUint32(); err != nil {
		return err
	}
	if fd.FileLength, err = r.ReadUint64(); err != nil {
		return err
	}
	if fd.UncompressedLength, err = r.ReadUint64(); err != nil {
		return err
	}
	fd.FileIndex, err = r.ReadUint32()
	return err
}

// SISLogo names the file description holding a package's logo image.
type SISLogo struct {
	LogoFile *SISFileDescription
}

func (l *SISLogo) parseBody(r *schema.Reader, frameEnd int64) error {
	f, err := parseSISField(r)
	if err != nil {
		return err
	}
	l.LogoFile, err = expectSISField[*SISFileDescription](f, FieldSISFileDescription)
	return err
}

// SISInstallBlock is the tree of files, embedded sub-packages, and
// conditional blocks one controller (or ElseIf branch) installs.
type SISInstallBlock struct {
	Files            []*SISFileDescription
	EmbeddedSISFiles *SISArray // element type should be SISController, kept generic: see spec §9
	IfBlocks         *SISArray // element type should be SISIf, kept generic: see spec §9
}

func (ib *SISInstallBlock) parseBody(r *schema.Reader, frameEnd int64) error {
	files, err := parseSISArrayField[*SISFileDescription](r, FieldSISFileDescription)
	if err != nil {
		return err
	}
	ib.Files = files

	if ib.EmbeddedSISFiles, err = parseSISArrayRaw(r); err != nil {
		return err
	}
	ib.IfBlocks, err = parseSISArrayRaw(r)
	return err
}
