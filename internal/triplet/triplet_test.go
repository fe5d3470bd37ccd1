// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triplet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompress(t *testing.T) {
	m := New[float64](3, 3)
	m.Append(2, 1, 1)
	m.Append(0, 2, 2)
	m.Append(0, 0, 3)
	m.Append(2, 1, 4)
	m.Append(0, 2, -2)
	assert.Equal(t, 5, m.Len())

	rowPtr, colInd, values := m.Compress()
	assert.Equal(t, []int{0, 2, 2, 3}, rowPtr)
	assert.Equal(t, []int{0, 2, 1}, colInd)
	assert.Equal(t, []float64{3, 0, 5}, values)
	assert.Equal(t, 5, m.Len(), "Compress must not modify m")

	assert.Panics(t, func() { m.Append(3, 0, 1) })
	assert.Panics(t, func() { m.Append(0, -1, 1) })

	rowPtr, colInd, values32 := New[float32](2, 0).Compress()
	assert.Equal(t, []int{0, 0, 0}, rowPtr)
	assert.Empty(t, colInd)
	assert.Empty(t, values32)
}
