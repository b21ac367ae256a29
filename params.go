/*
 * params.go, part of gotem.
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
	"math/rand/v2"
	"strings"
)

// Parameters contains everything the TEM-simulator needs for one run,
// organized in the sections of its input file. Empty path fields are not
// written to the input file.
type Parameters struct {
	Simulation  Simulation
	Sample      Sample
	Particle    Particle
	ParticleSet ParticleSet
	Beam        Beam
	Optics      Optics
	Detector    Detector
	Geometry    Geometry
	CTF         *CTF //nil if the configuration has no complete CTF block.
	Noise       Noise
}

type Simulation struct {
	Seed    int64
	LogFile string
}

// Sample is the hole in the specimen grid, in nm.
type Sample struct {
	Diameter        int
	ThicknessCenter int
	ThicknessEdge   int
}

type Particle struct {
	Name         string
	VoxelSize    Number
	PDBFile      string
	MapFileReOut string
	MapFileImOut string
}

type ParticleSet struct {
	Name    string
	CrdFile string
}

type Beam struct {
	Voltage   Number
	Spread    Number
	DosePerIm Number
	DoseSD    Number
}

type Optics struct {
	Magnification       Number
	Cs                  Number
	Cc                  Number
	Aperture            Number
	FocalLength         Number
	CondApAngle         Number
	GenDefocus          Switch
	DefocusNominal      Number
	DefocusSystError    Number
	DefocusNonsystError Number
	DefocusFileOut      string
	DefocusFileIn       string
}

type Detector struct {
	DetPixX         int
	DetPixY         int
	PixelSize       Number
	Gain            Number
	UseQuantization Switch
	DQE             Number
	MTFA            Number
	MTFB            Number
	MTFC            Number
	MTFAlpha        Number
	MTFBeta         Number
	ImageFileOut    string
}

type Geometry struct {
	NTilts int
}

type CTF struct {
	DistributionType       string
	DistributionParameters []float64
}

type Noise struct {
	SignalToNoise   *float64
	SignalToNoiseDB *float64
}

// Overrides are values given by the caller which, when not nil, take
// precedence over the ones in the configuration.
type Overrides struct {
	Dose  *Number
	Noise *Switch
}

// Upper limit (exclusive) for randomly generated seeds.
const maxSeed = 10000000000

// NewParameters builds the simulator parameters from the configuration C,
// the files in paths and the overrides ov. If C has no seed, one is drawn
// from rng, or from a freshly seeded source if rng is nil.
func NewParameters(C *Config, paths *PathSet, ov Overrides, rng *rand.Rand) (*Parameters, error) {
	P := new(Parameters)
	if C.Misc.Seed != nil {
		P.Simulation.Seed = *C.Misc.Seed
	} else {
		if rng == nil {
			rng = NewRand()
		}
		P.Simulation.Seed = rng.Int64N(maxSeed)
	}
	P.Simulation.LogFile = paths.Log

	P.Noise.SignalToNoise = C.Noise.SignalToNoise
	P.Noise.SignalToNoiseDB = C.Noise.SignalToNoiseDB

	P.Sample = Sample{
		Diameter:        C.Grid.HoleDiameter,
		ThicknessCenter: C.Grid.ThicknessCenter,
		ThicknessEdge:   C.Grid.ThicknessEdge,
	}

	P.Particle.Name = C.Model.ParticleName
	P.Particle.VoxelSize = C.Model.VoxelSize
	P.Particle.PDBFile = paths.PDB
	if C.Model.ParticleMRCOut != nil {
		key, _, _ := strings.Cut(*C.Model.ParticleMRCOut, ".mrc")
		P.Particle.MapFileReOut = key + "_real.mrc"
		P.Particle.MapFileImOut = key + "_imag.mrc"
	}
	P.ParticleSet = ParticleSet{Name: C.Model.ParticleName, CrdFile: paths.Crd}

	P.Beam.Voltage = C.Beam.Voltage
	P.Beam.Spread = C.Beam.EnergySpread
	switch {
	case ov.Dose != nil:
		P.Beam.DosePerIm = *ov.Dose
	case C.Beam.Dose != nil:
		P.Beam.DosePerIm = *C.Beam.Dose
	default:
		return nil, newError(MissingKey+": beam_parameters.electron_dose_e_per_nm2", "", "NewParameters")
	}
	P.Beam.DoseSD = C.Beam.DoseStd

	O := C.Optics
	P.Optics = Optics{
		Magnification:       O.Magnification,
		Cs:                  O.SphericalAberration,
		Cc:                  O.ChromaticAberration,
		Aperture:            O.ApertureDiameter,
		FocalLength:         O.FocalLength,
		CondApAngle:         O.ApertureAngle,
		DefocusSystError:    O.DefocusSystError,
		DefocusNonsystError: O.DefocusNonsystError,
	}
	if O.DefocusOut != nil {
		P.Optics.DefocusFileOut = *O.DefocusOut
	}
	D := C.Detector
	if len(D.MTF) != NMTF {
		return nil, newError(MalformedValue+": detector_parameters.mtf_params", "", "NewParameters")
	}
	//Without a nominal defocus, the first MTF parameter stands in for it.
	if O.Defocus != nil {
		P.Optics.DefocusNominal = *O.Defocus
		P.Detector.MTFA = *O.Defocus
	} else {
		P.Optics.DefocusNominal = D.MTF[0]
		P.Detector.MTFA = D.MTF[0]
	}

	P.Detector.DetPixX = D.NX
	P.Detector.DetPixY = D.NY
	P.Detector.PixelSize = D.PixelSize
	P.Detector.Gain = D.Gain
	switch {
	case ov.Noise != nil:
		P.Detector.UseQuantization = *ov.Noise
	case D.Noise != nil:
		P.Detector.UseQuantization = *D.Noise
	default:
		return nil, newError(MissingKey+": detector_parameters.noise", "", "NewParameters")
	}
	P.Detector.DQE = D.DQE
	P.Detector.MTFB = D.MTF[1]
	P.Detector.MTFC = D.MTF[2]
	P.Detector.MTFAlpha = D.MTF[3]
	P.Detector.MTFBeta = D.MTF[4]
	P.Detector.ImageFileOut = paths.MRC

	P.Geometry.NTilts = C.Geometry.NSamples

	if C.CTF.Complete() {
		P.CTF = &CTF{
			DistributionType:       *C.CTF.DistributionType,
			DistributionParameters: C.CTF.DistributionParameters,
		}
		P.Optics.GenDefocus = false
		P.Optics.DefocusFileIn = paths.Defocus
	} else {
		Logf("WARNING: ctf_parameters not found/invalid. Using constant defocus.")
		P.Optics.GenDefocus = true
	}
	return P, nil
}

// ParametersFromFile loads the YAML configuration in path and builds the
// simulator parameters from it. See NewParameters.
func ParametersFromFile(path string, paths *PathSet, ov Overrides, rng *rand.Rand) (*Parameters, error) {
	C, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	P, err := NewParameters(C, paths, ov, rng)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = path
			e.Decorate("ParametersFromFile")
		}
		return nil, err
	}
	return P, nil
}

// FieldOfView returns the side, in nm, of the square area of the specimen
// imaged by the detector, taking the shorter detector dimension.
func (P *Parameters) FieldOfView() float64 {
	D := P.Detector
	if P.Optics.Magnification.Value == 0 {
		return 0
	}
	px := float64(min(D.DetPixX, D.DetPixY))
	return px * D.PixelSize.Value * 1000 / P.Optics.Magnification.Value
}
