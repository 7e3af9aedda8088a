// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Registry file headers.
const (
	ArtistHeader = "artist"
	UserHeader   = "user"
)

// NormalizationTolerance is the allowed deviation of a row sum from 1 after
// a %0.6f round trip.
const NormalizationTolerance = 1e-4

// maxLineSize bounds a single matrix row; wide matrices have long lines.
const maxLineSize = 256 << 20

// Paths names the three files of a dataset.
type Paths struct {
	Matrix  string
	Artists string
	Users   string
}

// LoadDataset reads a matrix and its registries and validates their
// dimensions. Every matrix row must sum to 0 or to 1 within
// NormalizationTolerance.
func LoadDataset(p Paths) (*Dataset, error) {
	m, err := readFile(p.Matrix, ReadMatrix)
	if err != nil {
		return nil, err
	}
	artists, err := readFile(p.Artists, ReadRegistry)
	if err != nil {
		return nil, err
	}
	users, err := readFile(p.Users, ReadRegistry)
	if err != nil {
		return nil, err
	}

	d := &Dataset{Matrix: m, Artists: artists, Users: users}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := m.CheckNormalized(NormalizationTolerance); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Matrix, err)
	}
	return d, nil
}

// SaveDataset writes the matrix and registries.
func SaveDataset(p Paths, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := writeFile(p.Artists, func(w io.Writer) error { return WriteRegistry(w, ArtistHeader, d.Artists) }); err != nil {
		return err
	}
	if err := writeFile(p.Users, func(w io.Writer) error { return WriteRegistry(w, UserHeader, d.Users) }); err != nil {
		return err
	}
	return writeFile(p.Matrix, func(w io.Writer) error { return WriteMatrix(w, d.Matrix) })
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	return v, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// ReadMatrix parses a whitespace-separated matrix, one user per line.
// Blank lines are ignored.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	sc := newScanner(r)
	var rows [][]float64
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedInput, line, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return FromRows(rows)
}

// WriteMatrix writes one line per user with tab-separated %0.6f values.
func WriteMatrix(w io.Writer, m *Matrix) error {
	users, artists := m.Dims()
	buf := make([]byte, 0, artists*9)
	for u := 0; u < users; u++ {
		buf = buf[:0]
		for a, v := range m.dense.RawRowView(u) {
			if a > 0 {
				buf = append(buf, '\t')
			}
			buf = strconv.AppendFloat(buf, v, 'f', 6, 64)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ReadRegistry reads a registry file: a header line followed by one
// identifier per line. Only the first tab-separated column is used.
func ReadRegistry(r io.Reader) (*Registry, error) {
	sc := newScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing header", ErrMalformedInput)
	}

	var names []string
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if text == "" {
			return nil, fmt.Errorf("%w: empty identifier on line %d", ErrMalformedInput, line)
		}
		id, _, _ := strings.Cut(text, "\t")
		names = append(names, id)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no identifiers", ErrMalformedInput)
	}
	return RegistryOf(names)
}

// WriteRegistry writes header and then each identifier on its own line.
func WriteRegistry(w io.Writer, header string, r *Registry) error {
	if _, err := io.WriteString(w, header+"\n"); err != nil {
		return err
	}
	for _, name := range r.names {
		if err := checkIdentifier(name); err != nil {
			return err
		}
		if _, err := io.WriteString(w, name+"\n"); err != nil {
			return err
		}
	}
	return nil
}
