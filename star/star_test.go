/*
 * star_test.go, part of gotem.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package star

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	tem "github.com/rmera/gotem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testConfig() *GeneratorConfig {
	return &GeneratorConfig{BatchSize: 2, KV: 300, PixelSize: 1.5, Cs: 2.7, AmplitudeContrast: 0.1, BFactor: 0}
}

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func testRotation() *RotationBatch {
	return &RotationBatch{Rot: vec(10, 20), Tilt: vec(1, 2), Psi: vec(0.1, 0.2)}
}

func TestAppendTEMRows(Te *testing.T) {
	cat := NewCatalogue()
	got, err := AppendTEMRows(cat, testRotation(), nil, nil, 7, testConfig())
	require.NoError(Te, err)
	assert.Same(Te, cat, got)
	want := [][]interface{}{
		{"000@0007.mrcs", 10.0, 1.0, 0.1, 300.0, 1.5, 2.7, 0.1, 0.0},
		{"001@0007.mrcs", 20.0, 2.0, 0.2, 300.0, 1.5, 2.7, 0.1, 0.0},
	}
	require.Equal(Te, 2, cat.Len())
	for i := range want {
		if diff := cmp.Diff(want[i], cat.Rows[i].Values()); diff != "" {
			Te.Errorf("row %d (-want +got):\n%s", i, diff)
		}
	}

	//the list keeps growing with each batch.
	_, err = AppendTEMRows(cat, testRotation(), nil, nil, 8, testConfig())
	require.NoError(Te, err)
	assert.Equal(Te, 4, cat.Len())
	assert.Equal(Te, "001@0008.mrcs", cat.Rows[3].ImageName)
}

func TestAppendTEMRowsShiftCTF(Te *testing.T) {
	cat := NewCatalogue()
	ctf := &CTFBatch{DefocusU: vec(1.5, 2), DefocusV: vec(1.4, 2.1), DefocusAngle: vec(90, 180)}
	shift := &ShiftBatch{X: vec(3, 4), Y: vec(-3, -4)}
	_, err := AppendTEMRows(cat, testRotation(), ctf, shift, 0, testConfig())
	require.NoError(Te, err)
	r := cat.Rows[1]
	assert.Equal(Te, "001@0000.mrcs", r.ImageName)
	require.NotNil(Te, r.Shift)
	assert.Equal(Te, Shift{4, -4}, *r.Shift)
	require.NotNil(Te, r.CTF)
	assert.InDelta(Te, 20000, r.CTF.DefocusU, 1e-9)
	assert.InDelta(Te, 21000, r.CTF.DefocusV, 1e-9)
	assert.InDelta(Te, math.Pi, r.CTF.DefocusAngle, 1e-12)
	assert.InDelta(Te, math.Pi/2, cat.Rows[0].CTF.DefocusAngle, 1e-12)
	vals := r.Values()
	require.Len(Te, vals, 14)
	assert.Equal(Te, 4.0, vals[4])
	assert.Equal(Te, 300.0, vals[9])
	assert.Equal(Te, []string{"rlnImageName", "rlnAngleRot", "rlnAngleTilt", "rlnAnglePsi", "rlnOriginX", "rlnOriginY",
		"rlnDefocusU", "rlnDefocusV", "rlnDefocusAngle", "rlnVoltage", "rlnImagePixelSize", "rlnSphericalAberration",
		"rlnAmplitudeContrast", "rlnCtfBfactor"}, cat.Columns())

	//batches must keep the columns of the catalogue.
	_, err = AppendTEMRows(cat, testRotation(), nil, shift, 1, testConfig())
	var e *Error
	require.True(Te, errors.As(err, &e))
	assert.Contains(Te, e.Error(), LayoutMismatch)
	assert.Equal(Te, 2, cat.Len())
}

func TestAppendTEMRowsShortBatch(Te *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 3
	cat := NewCatalogue()
	_, err := AppendTEMRows(cat, testRotation(), nil, nil, 0, cfg)
	assert.ErrorContains(Te, err, ShortBatch)
	assert.Equal(Te, 0, cat.Len())
	_, err = AppendTEMRows(cat, &RotationBatch{Rot: vec(1, 2)}, nil, nil, 0, testConfig())
	assert.Error(Te, err)
	_, err = AppendTEMRows(cat, nil, nil, nil, 0, testConfig())
	assert.Error(Te, err)
}

const sampleStar = `
data_

loop_
_rlnImageName #1
_rlnAngleRot #2
_rlnAngleTilt #3
_rlnAnglePsi #4
_rlnVoltage #5
_rlnImagePixelSize #6
_rlnSphericalAberration #7
_rlnAmplitudeContrast #8
_rlnCtfBfactor #9
000@0007.mrcs 10 1 0.1 300 1.5 2.7 0.1 0
001@0007.mrcs 20 2 0.2 300 1.5 2.7 0.1 0
`

func sampleCatalogue(Te *testing.T) *Catalogue {
	cat, err := AppendTEMRows(NewCatalogue(), testRotation(), nil, nil, 7, testConfig())
	require.NoError(Te, err)
	return cat
}

func TestWriteStar(Te *testing.T) {
	cat := sampleCatalogue(Te)
	var b bytes.Buffer
	n, err := cat.WriteTo(&b)
	require.NoError(Te, err)
	assert.EqualValues(Te, b.Len(), n)
	assert.Equal(Te, sampleStar, b.String())

	dir := Te.TempDir()
	name := filepath.Join(dir, "run.star")
	require.NoError(Te, Write(name, cat))
	data, err := os.ReadFile(name)
	require.NoError(Te, err)
	assert.Equal(Te, sampleStar, string(data))
}

func TestWriteStarCompressed(Te *testing.T) {
	cat := sampleCatalogue(Te)
	dir := Te.TempDir()

	gz := filepath.Join(dir, "run.star.gz")
	require.NoError(Te, Write(gz, cat))
	f, err := os.Open(gz)
	require.NoError(Te, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(Te, err)
	data, err := io.ReadAll(gr)
	require.NoError(Te, err)
	assert.Equal(Te, sampleStar, string(data))

	zs := filepath.Join(dir, "run.star.zst")
	require.NoError(Te, Write(zs, cat))
	raw, err := os.ReadFile(zs)
	require.NoError(Te, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(Te, err)
	defer dec.Close()
	data, err = dec.DecodeAll(raw, nil)
	require.NoError(Te, err)
	assert.Equal(Te, sampleStar, string(data))
}

func TestWriteStarExtension(Te *testing.T) {
	var logged []string
	tem.SetLogger(func(format string, v ...interface{}) { logged = append(logged, format) })
	defer tem.SetLogger(nil)
	name := filepath.Join(Te.TempDir(), "run.csv")
	err := Write(name, sampleCatalogue(Te))
	var e *tem.ExtensionError
	require.True(Te, errors.As(err, &e))
	assert.Len(Te, logged, 1)
	_, err = os.Stat(name)
	assert.True(Te, os.IsNotExist(err))
	assert.True(Te, strings.HasSuffix(e.FileName(), "run.csv"))
}

func TestLoadGeneratorConfig(Te *testing.T) {
	G, err := LoadGeneratorConfig("../test/generator.yml")
	require.NoError(Te, err)
	assert.Equal(Te, testConfig(), G)

	bad := filepath.Join(Te.TempDir(), "gen.yml")
	require.NoError(Te, os.WriteFile(bad, []byte("batch_size: 0\n"), 0o644))
	_, err = LoadGeneratorConfig(bad)
	assert.Error(Te, err)
}
