// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/pathcore/biosimd"
)

func TestReverseComp8NoValidate(t *testing.T) {
	dst := make([]byte, 8)
	biosimd.ReverseComp8NoValidate(dst, []byte("ACGTacgt"))
	assert.Equal(t, "ACGTACGT", string(dst))
}

func TestReverseComp8NoValidateMapsUnknownBasesToN(t *testing.T) {
	dst := make([]byte, 3)
	biosimd.ReverseComp8NoValidate(dst, []byte("AXG"))
	assert.Equal(t, "CNT", string(dst))
}

func TestReverseComp8NoValidatePanicsOnLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		biosimd.ReverseComp8NoValidate(make([]byte, 2), []byte("ACG"))
	})
}
