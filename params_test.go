/*
 * params_test.go, part of gotem.
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

package tem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths() *PathSet {
	return NewPathSet("test/4v6x.pdb", "test/sample.yml", "out", "_TEST", nil)
}

func TestParametersFromFile(Te *testing.T) {
	SetLogger(nil)
	defer SetLogger(nil)
	paths := testPaths()
	P, err := ParametersFromFile("test/sample.yml", paths, Overrides{}, nil)
	require.NoError(Te, err)
	snr := 0.1
	want := &Parameters{
		Simulation: Simulation{Seed: 1234, LogFile: "out/4v6x_TEST.log"},
		Sample:     Sample{Diameter: 1200, ThicknessCenter: 100, ThicknessEdge: 100},
		Particle: Particle{
			Name:         "4v6x",
			VoxelSize:    num(0.1),
			PDBFile:      "test/4v6x.pdb",
			MapFileReOut: "4v6x_map_real.mrc",
			MapFileImOut: "4v6x_map_imag.mrc",
		},
		ParticleSet: ParticleSet{Name: "4v6x", CrdFile: "out/4v6x_TEST.txt"},
		Beam:        Beam{Voltage: whole(300), Spread: num(1.3), DosePerIm: whole(100), DoseSD: whole(0)},
		Optics: Optics{
			Magnification:  whole(81000),
			Cs:             num(2.7),
			Cc:             num(2.7),
			Aperture:       whole(50),
			FocalLength:    num(3.5),
			CondApAngle:    num(0.1),
			GenDefocus:     false,
			DefocusNominal: num(1.0),
			DefocusFileOut: "4v6x_defocus_out.txt",
			DefocusFileIn:  "out/4v6x_TEST_defocus.txt",
		},
		Detector: Detector{
			DetPixX:         5760,
			DetPixY:         4092,
			PixelSize:       whole(5),
			Gain:            whole(2),
			UseQuantization: true,
			DQE:             num(0.4),
			MTFA:            num(1.0),
			MTFB:            whole(0),
			MTFC:            whole(1),
			MTFAlpha:        whole(0),
			MTFBeta:         whole(0),
			ImageFileOut:    "out/4v6x_TEST.mrc",
		},
		Geometry: Geometry{NTilts: 3},
		CTF:      &CTF{DistributionType: "uniform", DistributionParameters: []float64{0.5, 2.5}},
		Noise:    Noise{SignalToNoise: &snr},
	}
	if diff := cmp.Diff(want, P); diff != "" {
		Te.Errorf("unexpected parameters (-want +got):\n%s", diff)
	}
}

func TestParametersDefaults(Te *testing.T) {
	msgs := logRecorder()
	defer SetLogger(nil)
	C, err := LoadConfig("test/minimal.yml")
	require.NoError(Te, err)
	P, err := NewParameters(C, testPaths(), Overrides{}, NewSeededRand(3))
	require.NoError(Te, err)
	//no defocus_um, so the first MTF parameter is used.
	assert.Equal(Te, num(0.7), P.Optics.DefocusNominal)
	assert.Equal(Te, num(0.7), P.Detector.MTFA)
	assert.Empty(Te, P.Particle.MapFileReOut)
	assert.Empty(Te, P.Particle.MapFileImOut)
	assert.Empty(Te, P.Optics.DefocusFileOut)
	assert.Nil(Te, P.CTF)
	assert.True(Te, bool(P.Optics.GenDefocus))
	assert.Empty(Te, P.Optics.DefocusFileIn)
	assert.True(Te, anyContains(*msgs, "ctf_parameters not found"))
	assert.Nil(Te, P.Noise.SignalToNoise)
	assert.Nil(Te, P.Noise.SignalToNoiseDB)

	assert.GreaterOrEqual(Te, P.Simulation.Seed, int64(0))
	assert.Less(Te, P.Simulation.Seed, int64(maxSeed))
	//the same source gives the same seed.
	P2, err := NewParameters(C, testPaths(), Overrides{}, NewSeededRand(3))
	require.NoError(Te, err)
	assert.Equal(Te, P.Simulation.Seed, P2.Simulation.Seed)
	//and with no source at all, we still get a valid one.
	P3, err := NewParameters(C, testPaths(), Overrides{}, nil)
	require.NoError(Te, err)
	assert.Less(Te, P3.Simulation.Seed, int64(maxSeed))
}

func TestParametersOverrides(Te *testing.T) {
	SetLogger(nil)
	defer SetLogger(nil)
	C, err := LoadConfig("test/minimal.yml")
	require.NoError(Te, err)
	dose := num(42.5)
	noise := Switch(true)
	P, err := NewParameters(C, testPaths(), Overrides{Dose: &dose, Noise: &noise}, nil)
	require.NoError(Te, err)
	assert.Equal(Te, num(42.5), P.Beam.DosePerIm)
	assert.Equal(Te, Switch(true), P.Detector.UseQuantization)

	//the overrides also stand in for missing keys.
	C.Beam.Dose = nil
	C.Detector.Noise = nil
	_, err = NewParameters(C, testPaths(), Overrides{Dose: &dose, Noise: &noise}, nil)
	assert.NoError(Te, err)
	_, err = NewParameters(C, testPaths(), Overrides{Noise: &noise}, nil)
	assert.ErrorContains(Te, err, "electron_dose_e_per_nm2")
	_, err = NewParameters(C, testPaths(), Overrides{Dose: &dose}, nil)
	assert.ErrorContains(Te, err, "detector_parameters.noise")
}

func TestParametersExtension(Te *testing.T) {
	msgs := logRecorder()
	defer SetLogger(nil)
	_, err := ParametersFromFile("test/sample.txt", testPaths(), Overrides{}, nil)
	require.Error(Te, err)
	assert.IsType(Te, &ExtensionError{}, err)
	assert.Len(Te, *msgs, 1)
}

func TestFieldOfView(Te *testing.T) {
	SetLogger(nil)
	defer SetLogger(nil)
	P, err := ParametersFromFile("test/minimal.yml", testPaths(), Overrides{}, nil)
	require.NoError(Te, err)
	//512 px of 5 um at 105000x.
	assert.InDelta(Te, 512*5*1000/105000.0, P.FieldOfView(), 1e-9)
	P.Optics.Magnification = Number{}
	assert.Equal(Te, 0.0, P.FieldOfView())
}
