// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"github.com/symbianarchive/e32sis/schema"
)

// SISExpression is a node of a conditional-install (If/ElseIf) expression
// tree. It is parsed in full but never evaluated, per spec's explicit
// Non-goal. StringValue is always present; LeftExpression and
// RightExpression are optional: parsing stops as soon as the frame ends
// after StringValue or after LeftExpression (CanBeLast), so a leaf
// expression (a bare integer or string literal) need not carry operands at
// all.
type SISExpression struct {
	Operator        uint32
	IntegerValue    int32
	StringValue     *SISString
	LeftExpression  *SISExpression
	RightExpression *SISExpression
}

func (e *SISExpression) parseBody(r *schema.Reader, frameEnd int64) error {
	op, err := r.ReadUint32()
	if err != nil {
		return err
	}
	e.Operator = op

	iv, err := r.ReadUint32()
	if err != nil {
		return err
	}
	e.IntegerValue = int32(iv)

	strField, err := parseSISField(r)
	if err != nil {
		return err
	}
	if e.StringValue, err = expectSISField[*SISString](strField, FieldSISString); err != nil {
		return err
	}
	if r.CanBeLast(frameEnd) {
		return nil
	}

	left, err := parseSISField(r)
	if err != nil {
		return err
	}
	if e.LeftExpression, err = expectSISField[*SISExpression](left, FieldSISExpression); err != nil {
		return err
	}
	if r.CanBeLast(frameEnd) {
		return nil
	}

	right, err := parseSISField(r)
	if err != nil {
		return err
	}
	e.RightExpression, err = expectSISField[*SISExpression](right, FieldSISExpression)
	return err
}

// SISElseIf is one ElseIf branch: its guarding expression and the install
// block it contributes when the (unevaluated) expression is true.
type SISElseIf struct {
	Expression   *SISExpression
	InstallBlock *SISInstallBlock
}

func (e *SISElseIf) parseBody(r *schema.Reader, frameEnd int64) error {
	expr, err := parseSISField(r)
	if err != nil {
		return err
	}
	if e.Expression, err = expectSISField[*SISExpression](expr, FieldSISExpression); err != nil {
		return err
	}

	block, err := parseSISField(r)
	if err != nil {
		return err
	}
	e.InstallBlock, err = expectSISField[*SISInstallBlock](block, FieldSISInstallBlock)
	return err
}

// SISIf is a conditional-install block: a guarding expression, the install
// block taken when it holds, and any ElseIf branches. Like SISExpression,
// the condition is parsed but never evaluated.
type SISIf struct {
	Expression   *SISExpression
	InstallBlock *SISInstallBlock
	ElseIfs      []*SISElseIf
}

func (i *SISIf) parseBody(r *schema.Reader, frameEnd int64) error {
	expr, err := parseSISField(r)
	if err != nil {
		return err
	}
	if i.Expression, err = expectSISField[*SISExpression](expr, FieldSISExpression); err != nil {
		return err
	}

	block, err := parseSISField(r)
	if err != nil {
		return err
	}
	if i.InstallBlock, err = expectSISField[*SISInstallBlock](block, FieldSISInstallBlock); err != nil {
		return err
	}

	i.ElseIfs, err = parseSISArrayField[*SISElseIf](r, FieldSISElseIf)
	return err
}
