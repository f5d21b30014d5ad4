// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides ASCII sequence operations shared by the k-mer
// canonicalization and correction stages. Only ReverseComp8NoValidate
// survives here; the teacher's SIMD-accelerated pack/unpack/count family
// served .bam-specific encodings this module never touches.
package biosimd
