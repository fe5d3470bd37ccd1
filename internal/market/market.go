// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package market reads matrices and vectors in the Matrix Market exchange
// format.
package market

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vladimir-ch/icpcg/csr"
)

var (
	// ErrHeader is returned when the banner line is missing or describes an
	// unsupported object.
	ErrHeader = errors.New("market: unsupported or missing header")

	// ErrFormat is returned for malformed size or entry lines.
	ErrFormat = errors.New("market: malformed data")
)

type header struct {
	format    string // "coordinate" or "array"
	field     string // "real" or "integer"
	symmetric bool
}

func readHeader(sc *bufio.Scanner) (header, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return header{}, err
		}
		return header{}, ErrHeader
	}
	f := strings.Fields(strings.ToLower(sc.Text()))
	if len(f) != 5 || f[0] != "%%matrixmarket" || f[1] != "matrix" {
		return header{}, fmt.Errorf("%q: %w", sc.Text(), ErrHeader)
	}
	h := header{format: f[2], field: f[3]}
	switch {
	case h.format != "coordinate" && h.format != "array":
		return header{}, fmt.Errorf("format %q: %w", f[2], ErrHeader)
	case h.field != "real" && h.field != "integer":
		return header{}, fmt.Errorf("field %q: %w", f[3], ErrHeader)
	}
	switch f[4] {
	case "general":
	case "symmetric":
		h.symmetric = true
	default:
		return header{}, fmt.Errorf("symmetry %q: %w", f[4], ErrHeader)
	}
	return h, nil
}

// nextFields returns the fields of the next line that is neither empty nor a
// comment.
func nextFields(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

func atoi(s []string) ([]int, error) {
	v := make([]int, len(s))
	for i, f := range s {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, ErrFormat)
		}
		v[i] = n
	}
	return v, nil
}

// ReadMatrix reads a sparse matrix in coordinate format. Entries of a
// symmetric matrix are mirrored across the diagonal.
func ReadMatrix(r io.Reader) (*csr.Matrix[float64], error) {
	sc := bufio.NewScanner(r)
	h, err := readHeader(sc)
	if err != nil {
		return nil, err
	}
	if h.format != "coordinate" {
		return nil, fmt.Errorf("matrix in %s format: %w", h.format, ErrHeader)
	}

	f, err := nextFields(sc)
	if err != nil {
		return nil, fmt.Errorf("size line: %w", err)
	}
	if len(f) != 3 {
		return nil, fmt.Errorf("size line %q: %w", strings.Join(f, " "), ErrFormat)
	}
	size, err := atoi(f)
	if err != nil {
		return nil, err
	}
	rows, cols, nnz := size[0], size[1], size[2]
	if rows < 0 || cols < 0 || nnz < 0 {
		return nil, fmt.Errorf("size %v: %w", size, ErrFormat)
	}

	b := csr.NewBuilder[float64](rows, cols)
	for k := 0; k < nnz; k++ {
		f, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", k+1, err)
		}
		if len(f) != 3 {
			return nil, fmt.Errorf("entry %d: %w", k+1, ErrFormat)
		}
		ij, err := atoi(f[:2])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", k+1, err)
		}
		v, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %q: %w", k+1, f[2], ErrFormat)
		}
		i, j := ij[0]-1, ij[1]-1
		if i < 0 || rows <= i || j < 0 || cols <= j {
			return nil, fmt.Errorf("entry %d: index (%d, %d): %w", k+1, ij[0], ij[1], ErrFormat)
		}
		b.Add(i, j, v)
		if h.symmetric && i != j {
			b.Add(j, i, v)
		}
	}
	return b.Build(), nil
}

// ReadVector reads a dense column vector in array format.
func ReadVector(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	h, err := readHeader(sc)
	if err != nil {
		return nil, err
	}
	if h.format != "array" || h.symmetric {
		return nil, fmt.Errorf("vector in %s format: %w", h.format, ErrHeader)
	}

	f, err := nextFields(sc)
	if err != nil {
		return nil, fmt.Errorf("size line: %w", err)
	}
	size, err := atoi(f)
	if err != nil {
		return nil, err
	}
	if len(size) != 2 || size[0] < 0 || size[1] != 1 {
		return nil, fmt.Errorf("size %v is not a column vector: %w", size, ErrFormat)
	}

	v := make([]float64, size[0])
	for i := range v {
		f, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if len(f) != 1 {
			return nil, fmt.Errorf("entry %d: %w", i+1, ErrFormat)
		}
		v[i], err = strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %q: %w", i+1, f[0], ErrFormat)
		}
	}
	return v, nil
}

// WriteVector writes v in array format.
func WriteVector(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("%%MatrixMarket matrix array real general\n")
	fmt.Fprintf(bw, "%d 1\n", len(v))
	for _, x := range v {
		bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
