/*
 * crd.go, part of gotem.
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
	"bufio"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Number of header lines in a TEM-simulator coordinate file.
const crdHeaderLines = 4

// Columns of a coordinate file as read by the TEM-simulator.
const NCrdCols = 6

var crdHeader = []string{
	"#            x             y             z           phi         theta           psi",
	"#           nm            nm            nm           deg           deg           deg",
}

// RotationMetadata reads the .txt coordinate file in path, and returns, for
// each particle, the values in its line. The number of columns is not
// checked. See RotationMatrix for how the angles are taken from them.
func RotationMetadata(path string) ([][]float64, error) {
	if err := CheckExtension(path, "RotationMetadata", CrdExt); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{UnableToOpen + ": " + err.Error(), path, []string{"os.Open", "RotationMetadata"}, true}
	}
	defer file.Close()
	ret := make([][]float64, 0)
	scanner := bufio.NewScanner(file)
	for i := 0; scanner.Scan(); i++ {
		if i < crdHeaderLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		row := make([]float64, len(fields))
		for j, v := range fields {
			row[j], err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &Error{fmt.Sprintf("%s: line %d: %s", ParseError, i+1, err.Error()), path, []string{"strconv.ParseFloat", "RotationMetadata"}, true}
			}
		}
		ret = append(ret, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{err.Error(), path, []string{"Scan", "RotationMetadata"}, true}
	}
	return ret, nil
}

// RotationMatrix puts the rotation angles phi, theta and psi of each row
// of metadata in an N x 3 matrix. Rows with the full TEM-simulator layout
// (x, y, z, phi, theta, psi) give their last 3 values, shorter rows
// their first 3. It returns an error if a row has fewer than 3 values.
func RotationMatrix(metadata [][]float64) (*mat.Dense, error) {
	if len(metadata) == 0 {
		return nil, newError("no rotation data", "", "RotationMatrix")
	}
	ret := mat.NewDense(len(metadata), 3, nil)
	for i, row := range metadata {
		if len(row) < 3 {
			return nil, newError(fmt.Sprintf("%s: row %d has %d values, 3 needed", MalformedValue, i, len(row)), "", "RotationMatrix")
		}
		if len(row) >= NCrdCols {
			row = row[3:NCrdCols]
		}
		ret.SetRow(i, row[:3])
	}
	return ret, nil
}

// RandomCoordinates places n particles on a square grid centered in a
// field of view of side fov nm, in the z = 0 plane. Each particle gets an
// orientation drawn uniformly over all rotations from rng (a fresh
// source if nil). It returns an n x 6 matrix with the columns x, y, z
// (nm), phi, theta and psi (degrees).
func RandomCoordinates(n int, fov float64, rng *rand.Rand) (*mat.Dense, error) {
	if n < 0 {
		return nil, newError(fmt.Sprintf("%s: cannot place %d particles", MalformedValue, n), "", "RandomCoordinates")
	}
	if n == 0 {
		return new(mat.Dense), nil
	}
	if rng == nil {
		rng = NewRand()
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	spacing := fov / float64(side)
	center := float64(side-1) / 2
	ret := mat.NewDense(n, NCrdCols, nil)
	for i := 0; i < n; i++ {
		x := (float64(i%side) - center) * spacing
		y := (float64(i/side) - center) * spacing
		phi := 360 * rng.Float64()
		theta := math.Acos(1-2*rng.Float64()) * 180 / math.Pi
		psi := 360 * rng.Float64()
		ret.SetRow(i, []float64{x, y, 0, phi, theta, psi})
	}
	return ret, nil
}

// WriteCoordinates writes the particle coordinates in C, an N x 6 matrix
// as returned by RandomCoordinates, to the .txt file path, in the format
// read by the TEM-simulator: a banner, the number of particles and columns,
// two comment lines naming the columns and their units, and one particle
// per line.
func WriteCoordinates(path string, C *mat.Dense) error {
	if err := CheckExtension(path, "WriteCoordinates", CrdExt); err != nil {
		return err
	}
	r, c := C.Dims()
	if r > 0 && c != NCrdCols {
		return newError(fmt.Sprintf("%s: coordinates need %d columns, got %d", MalformedValue, NCrdCols, c), path, "WriteCoordinates")
	}
	file, err := os.Create(path)
	if err != nil {
		return &Error{err.Error(), path, []string{"os.Create", "WriteCoordinates"}, true}
	}
	defer file.Close()
	out := bufio.NewWriter(file)
	fmt.Fprintln(out, simulatorBanner)
	fmt.Fprintf(out, "%d %d\n", r, NCrdCols)
	for _, v := range crdHeader {
		fmt.Fprintln(out, v)
	}
	for i := 0; i < r; i++ {
		for _, v := range C.RawRowView(i) {
			fmt.Fprintf(out, "%14.6f", v)
		}
		fmt.Fprintln(out)
	}
	if err = out.Flush(); err != nil {
		return &Error{err.Error(), path, []string{"Flush", "WriteCoordinates"}, true}
	}
	return file.Close()
}
