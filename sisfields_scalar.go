// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"github.com/symbianarchive/e32sis/schema"
)

// SISString is a UCS-2-encoded Unicode string spanning the remainder of its
// frame.
type SISString struct {
	String string
}

func (s *SISString) parseBody(r *schema.Reader, frameEnd int64) error {
	str, err := r.ReadUTF16String(frameEnd)
	if err != nil {
		return err
	}
	s.String = str
	return nil
}

// SISBlob is an opaque variable-length byte payload spanning the remainder
// of its frame.
type SISBlob struct {
	Blob []byte
}

func (b *SISBlob) parseBody(r *schema.Reader, frameEnd int64) error {
	data, err := r.ReadRemaining(frameEnd)
	if err != nil {
		return err
	}
	b.Blob = data
	return nil
}

// SISVersion is a three-field version number; -1 in any component means
// "any".
type SISVersion struct {
	Major int32
	Minor int32
	Build int32
}

func (v *SISVersion) parseBody(r *schema.Reader, frameEnd int64) error {
	major, err := r.ReadUint32()
	if err != nil {
		return err
	}
	minor, err := r.ReadUint32()
	if err != nil {
		return err
	}
	build, err := r.ReadUint32()
	if err != nil {
		return err
	}
	v.Major, v.Minor, v.Build = int32(major), int32(minor), int32(build)
	return nil
}

// SISVersionRange bounds a version requirement; ToVersion is absent when
// FromVersion alone fills the frame (the CanBeLast directive on FromVersion).
type SISVersionRange struct {
	FromVersion *SISVersion
	ToVersion   *SISVersion
}

func (vr *SISVersionRange) parseBody(r *schema.Reader, frameEnd int64) error {
	from, err := parseSISField(r)
	if err != nil {
		return err
	}
	vr.FromVersion, err = expectSISField[*SISVersion](from, FieldSISVersion)
	if err != nil {
		return err
	}
	if r.CanBeLast(frameEnd) {
		return nil
	}
	to, err := parseSISField(r)
	if err != nil {
		return err
	}
	vr.ToVersion, err = expectSISField[*SISVersion](to, FieldSISVersion)
	return err
}

// SISDate is a calendar date; Month is zero-based, Day is one-based, per
// the original format.
type SISDate struct {
	Year  uint16
	Month uint8
	Day   uint8
}

func (d *SISDate) parseBody(r *schema.Reader, frameEnd int64) error {
	year, err := r.ReadUint16()
	if err != nil {
		return err
	}
	month, err := r.ReadUint8()
	if err != nil {
		return err
	}
	day, err := r.ReadUint8()
	if err != nil {
		return err
	}
	d.Year, d.Month, d.Day = year, month, day
	return nil
}

// SISTime is a time of day.
type SISTime struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

func (t *SISTime) parseBody(r *schema.Reader, frameEnd int64) error {
	h, err := r.ReadUint8()
	if err != nil {
		return err
	}
	m, err := r.ReadUint8()
	if err != nil {
		return err
	}
	s, err := r.ReadUint8()
	if err != nil {
		return err
	}
	t.Hours, t.Minutes, t.Seconds = h, m, s
	return nil
}

// SISDateTime is a combined date and time, used for a package's
// CreationTime.
type SISDateTime struct {
	Date *SISDate
	Time *SISTime
}

func (dt *SISDateTime) parseBody(r *schema.Reader, frameEnd int64) error {
	date, err := parseSISField(r)
	if err != nil {
		return err
	}
	dt.Date, err = expectSISField[*SISDate](date, FieldSISDate)
	if err != nil {
		return err
	}
	timeField, err := parseSISField(r)
	if err != nil {
		return err
	}
	dt.Time, err = expectSISField[*SISTime](timeField, FieldSISTime)
	return err
}

// SISUid wraps a single UID, used to match UID3 from the package file
// header.
type SISUid struct {
	UID1 int32
}

func (u *SISUid) parseBody(r *schema.Reader, frameEnd int64) error {
	v, err := r.ReadUint32()
	if err != nil {
		return err
	}
	u.UID1 = int32(v)
	return nil
}

// SISLanguage identifies one installer language variant.
type SISLanguage struct {
	Language TLanguage
}

func (l *SISLanguage) parseBody(r *schema.Reader, frameEnd int64) error {
	v, err := r.ReadUint32()
	if err != nil {
		return err
	}
	l.Language = TLanguage(v)
	return nil
}

// SISDataIndex points into SISData.DataUnits[0].FileData by index.
type SISDataIndex struct {
	DataIndex uint32
}

func (d *SISDataIndex) parseBody(r *schema.Reader, frameEnd int64) error {
	v, err := r.ReadUint32()
	if err != nil {
		return err
	}
	d.DataIndex = v
	return nil
}

// SISControllerChecksum is a CRC-16 over the (decompressed) controller
// bytes.
type SISControllerChecksum struct {
	Checksum uint16
}

func (c *SISControllerChecksum) parseBody(r *schema.Reader, frameEnd int64) error {
	v, err := r.ReadUint16()
	if err != nil {
		return err
	}
	c.Checksum = v
	return nil
}

// SISDataChecksum is a CRC-16 over the (decompressed) data bytes.
type SISDataChecksum struct {
	Checksum uint16
}

func (c *SISDataChecksum) parseBody(r *schema.Reader, frameEnd int64) error {
	v, err := r.ReadUint16()
	if err != nil {
		return err
	}
	c.Checksum = v
	return nil
}

// SISProperty is a single key/value pair in a controller's property list.
type SISProperty struct {
	Key   int32
	Value int32
}

func (p *SISProperty) parseBody(r *schema.Reader, frameEnd int64) error {
	key, err := r.ReadUint32()
	if err != nil {
		return err
	}
	val, err := r.ReadUint32()
	if err != nil {
		return err
	}
	p.Key, p.Value = int32(key), int32(val)
	return nil
}

// SISCapabilities is a raw bitfield of capability words, read as a plain
// (untagged) array of 32-bit words filling the frame -- unlike every other
// SIS array, its elements are not themselves tagged SISField records.
type SISCapabilities struct {
	Capabilities []uint32
}

func (c *SISCapabilities) parseBody(r *schema.Reader, frameEnd int64) error {
	for r.Tell() < frameEnd {
		v, err := r.ReadUint32()
		if err != nil {
			return err
		}
		c.Capabilities = append(c.Capabilities, v)
	}
	return nil
}

// SISHash is a file or blob's content hash.
type SISHash struct {
	HashAlgorithm uint32
	HashData      *SISBlob
}

func (h *SISHash) parseBody(r *schema.Reader, frameEnd int64) error {
	algo, err := r.ReadUint32()
	if err != nil {
		return err
	}
	h.HashAlgorithm = algo
	blob, err := parseSISField(r)
	if err != nil {
		return err
	}
	h.HashData, err = expectSISField[*SISBlob](blob, FieldSISBlob)
	return err
}
