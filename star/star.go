/*
 * star.go, part of gotem.
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

//Package star builds the metadata catalogue of a simulated dataset, and
//writes it as a RELION-style star file.
package star

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Shift is the in-plane shift of a projection.
type Shift struct {
	X, Y float64
}

// CTFValues are the CTF parameters of one image, already in catalogue units:
// defocus in Angstrom and the astigmatism angle in radians.
type CTFValues struct {
	DefocusU     float64
	DefocusV     float64
	DefocusAngle float64
}

// Acquisition contains the constants shared by all the images of a dataset.
type Acquisition struct {
	KV                float64
	PixelSize         float64
	Cs                float64
	AmplitudeContrast float64
	BFactor           float64
}

// Row is the metadata of one simulated image.
type Row struct {
	ImageName      string
	Rot, Tilt, Psi float64
	Shift          *Shift     //nil if shifts are not recorded.
	CTF            *CTFValues //nil if CTF parameters are not recorded.
	Acquisition
}

// Values returns the scalars in the row, in catalogue order: the image name,
// the 3 angles, the shift and CTF values (if any) and the 5 acquisition
// constants.
func (R *Row) Values() []interface{} {
	ret := []interface{}{R.ImageName, R.Rot, R.Tilt, R.Psi}
	if R.Shift != nil {
		ret = append(ret, R.Shift.X, R.Shift.Y)
	}
	if R.CTF != nil {
		ret = append(ret, R.CTF.DefocusU, R.CTF.DefocusV, R.CTF.DefocusAngle)
	}
	return append(ret, R.KV, R.PixelSize, R.Cs, R.AmplitudeContrast, R.BFactor)
}

// Fields returns the row's values as strings, ready to be written.
func (R *Row) Fields() []string {
	vals := R.Values()
	ret := make([]string, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case float64:
			ret[i] = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			ret[i] = fmt.Sprint(v)
		}
	}
	return ret
}

// Catalogue is a growing list of rows. All its rows have the same columns,
// which are fixed by the first batch appended.
type Catalogue struct {
	Rows     []Row
	hasShift bool
	hasCTF   bool
	fixed    bool
}

func NewCatalogue() *Catalogue {
	return new(Catalogue)
}

func (C *Catalogue) Len() int {
	return len(C.Rows)
}

// Columns returns the star column labels for the catalogue, without the
// leading underscore.
func (C *Catalogue) Columns() []string {
	ret := []string{"rlnImageName", "rlnAngleRot", "rlnAngleTilt", "rlnAnglePsi"}
	if C.hasShift {
		ret = append(ret, "rlnOriginX", "rlnOriginY")
	}
	if C.hasCTF {
		ret = append(ret, "rlnDefocusU", "rlnDefocusV", "rlnDefocusAngle")
	}
	return append(ret, "rlnVoltage", "rlnImagePixelSize", "rlnSphericalAberration", "rlnAmplitudeContrast", "rlnCtfBfactor")
}

// RotationBatch has one element per image of a batch, for each angle.
type RotationBatch struct {
	Rot, Tilt, Psi mat.Vector
}

type ShiftBatch struct {
	X, Y mat.Vector
}

// CTFBatch has the defocus values in um and the defocus angle in degrees.
type CTFBatch struct {
	DefocusU, DefocusV, DefocusAngle mat.Vector
}

// ImageName returns the name of image idx of the batch iteration,
// as in 001@0007.mrcs.
func ImageName(idx, iteration int) string {
	return fmt.Sprintf("%03d@%04d.mrcs", idx, iteration)
}

func checkLen(n int, name string, vecs ...mat.Vector) error {
	for _, v := range vecs {
		if v == nil || v.Len() < n {
			return newError(fmt.Sprintf("%s: %s", ShortBatch, name), "AppendTEMRows")
		}
	}
	return nil
}

// AppendTEMRows appends to C one row per image of the batch iteration
// (zero-based), and returns C. rot is required, ctf and shift may be nil.
// The constants of each row, and the batch size, are taken from config.
// Defocus values are converted from um to Angstrom and the defocus angle
// from degrees to radians.
func AppendTEMRows(C *Catalogue, rot *RotationBatch, ctf *CTFBatch, shift *ShiftBatch, iteration int, config *GeneratorConfig) (*Catalogue, error) {
	if C == nil || rot == nil || config == nil {
		return C, newError("nil catalogue, rotations or configuration", "AppendTEMRows")
	}
	n := config.BatchSize
	if err := checkLen(n, "rotation", rot.Rot, rot.Tilt, rot.Psi); err != nil {
		return C, err
	}
	if shift != nil {
		if err := checkLen(n, "shift", shift.X, shift.Y); err != nil {
			return C, err
		}
	}
	if ctf != nil {
		if err := checkLen(n, "ctf", ctf.DefocusU, ctf.DefocusV, ctf.DefocusAngle); err != nil {
			return C, err
		}
	}
	if !C.fixed {
		C.hasShift = shift != nil
		C.hasCTF = ctf != nil
		C.fixed = true
	} else if C.hasShift != (shift != nil) || C.hasCTF != (ctf != nil) {
		return C, newError(LayoutMismatch, "AppendTEMRows")
	}
	acq := config.Acquisition()
	for i := 0; i < n; i++ {
		row := Row{
			ImageName:   ImageName(i, iteration),
			Rot:         rot.Rot.AtVec(i),
			Tilt:        rot.Tilt.AtVec(i),
			Psi:         rot.Psi.AtVec(i),
			Acquisition: acq,
		}
		if shift != nil {
			row.Shift = &Shift{X: shift.X.AtVec(i), Y: shift.Y.AtVec(i)}
		}
		if ctf != nil {
			row.CTF = &CTFValues{
				DefocusU:     1e4 * ctf.DefocusU.AtVec(i),
				DefocusV:     1e4 * ctf.DefocusV.AtVec(i),
				DefocusAngle: ctf.DefocusAngle.AtVec(i) * math.Pi / 180,
			}
		}
		C.Rows = append(C.Rows, row)
	}
	return C, nil
}
