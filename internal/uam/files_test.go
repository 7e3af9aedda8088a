// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Matrix:  filepath.Join(dir, "UAM.txt"),
		Artists: filepath.Join(dir, "UAM_artists.txt"),
		Users:   filepath.Join(dir, "UAM_users.txt"),
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	t.Parallel()

	m := mustRows(t, [][]float64{
		{1.0 / 3, 2.0 / 3, 0},
		{0, 0, 0},
		{0.1234567, 0.3765433, 0.5},
	})
	artists, _ := RegistryOf([]string{"Radiohead", "Sigur Rós", "Aphex Twin"})
	users, _ := RegistryOf([]string{"rj", "tania", "eartle"})
	in := &Dataset{Matrix: m, Artists: artists, Users: users}

	p := testPaths(t)
	if err := SaveDataset(p, in); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	out, err := LoadDataset(p)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	for i, name := range in.Artists.Names() {
		if out.Artists.Name(i) != name {
			t.Errorf("artist %d = %q, want %q", i, out.Artists.Name(i), name)
		}
	}
	for i, name := range in.Users.Names() {
		if out.Users.Name(i) != name {
			t.Errorf("user %d = %q, want %q", i, out.Users.Name(i), name)
		}
	}

	users3, artists3 := out.Matrix.Dims()
	for u := 0; u < users3; u++ {
		for a := 0; a < artists3; a++ {
			if diff := math.Abs(out.Matrix.At(u, a) - in.Matrix.At(u, a)); diff > 5e-7 {
				t.Errorf("(%d,%d) = %.7f, want %.7f", u, a, out.Matrix.At(u, a), in.Matrix.At(u, a))
			}
		}
	}
	if err := out.Matrix.CheckNormalized(1e-5); err != nil {
		t.Errorf("reloaded matrix not normalized: %v", err)
	}
}

func TestWriteMatrixFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := mustRows(t, [][]float64{{0.5, 0.5}, {1, 0}})
	if err := WriteMatrix(&buf, m); err != nil {
		t.Fatalf("WriteMatrix() error = %v", err)
	}

	want := "0.500000\t0.500000\n1.000000\t0.000000\n"
	if buf.String() != want {
		t.Errorf("WriteMatrix() = %q, want %q", buf.String(), want)
	}
}

func TestReadMatrix_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged", "0.5\t0.5\n1.0\n"},
		{"not a number", "0.5\tabc\n"},
		{"negative", "-0.5\t1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ReadMatrix(strings.NewReader(tt.input)); !errors.Is(err, ErrMalformedInput) {
				t.Errorf("ReadMatrix() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestReadRegistry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "header and names", input: "artist\nRadiohead\nBjörk\n", want: []string{"Radiohead", "Björk"}},
		{name: "extra columns ignored", input: "user\nrj\t42\ntania\t7\n", want: []string{"rj", "tania"}},
		{name: "CRLF", input: "user\r\nrj\r\n", want: []string{"rj"}},
		{name: "empty file", input: "", wantErr: true},
		{name: "header only", input: "artist\n", wantErr: true},
		{name: "blank identifier", input: "artist\nA\n\nB\n", wantErr: true},
		{name: "duplicate", input: "artist\nA\nA\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := ReadRegistry(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Errorf("ReadRegistry() error = %v, want ErrMalformedInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadRegistry() error = %v", err)
			}
			if r.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", r.Len(), len(tt.want))
			}
			for i, name := range tt.want {
				if r.Name(i) != name {
					t.Errorf("Name(%d) = %q, want %q", i, r.Name(i), name)
				}
			}
		})
	}
}

func TestLoadDataset_DimensionMismatch(t *testing.T) {
	t.Parallel()

	p := testPaths(t)
	writeTestFile(t, p.Matrix, "1.000000\t0.000000\n0.000000\t1.000000\n")
	writeTestFile(t, p.Artists, "artist\nA\nB\n")
	writeTestFile(t, p.Users, "user\nrj\n")

	if _, err := LoadDataset(p); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("LoadDataset() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestLoadDataset_NotNormalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		matrix string
	}{
		{name: "raw play counts", matrix: "5\t3\n0\t2\n"},
		{name: "row below one", matrix: "0.400000\t0.400000\n0.000000\t0.000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := testPaths(t)
			writeTestFile(t, p.Matrix, tt.matrix)
			writeTestFile(t, p.Artists, "artist\nA\nB\n")
			writeTestFile(t, p.Users, "user\nrj\ntania\n")

			if _, err := LoadDataset(p); !errors.Is(err, ErrMalformedInput) {
				t.Errorf("LoadDataset() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestLoadDataset_ZeroRowsAccepted(t *testing.T) {
	t.Parallel()

	p := testPaths(t)
	writeTestFile(t, p.Matrix, "0.333333\t0.666667\n0.000000\t0.000000\n")
	writeTestFile(t, p.Artists, "artist\nA\nB\n")
	writeTestFile(t, p.Users, "user\nrj\ntania\n")

	if _, err := LoadDataset(p); err != nil {
		t.Errorf("LoadDataset() error = %v", err)
	}
}

func TestWriteRegistry_RejectsTab(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add("Simon\tGarfunkel")

	var buf bytes.Buffer
	if err := WriteRegistry(&buf, ArtistHeader, r); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("WriteRegistry() error = %v, want ErrMalformedInput", err)
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	t.Parallel()

	p := testPaths(t)
	if _, err := LoadDataset(p); err == nil {
		t.Error("LoadDataset() expected error for missing files")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
