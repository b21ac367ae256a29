/*
 * defocus.go, part of gotem.
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
	"math/rand/v2"
	"os"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const simulatorBanner = "# File created by TEM-simulator, version 1.3."

// WriteDefocusFile writes the defocus values in distribution to the .txt file
// path, in the tabular format read by the TEM-simulator: a banner, a line
// with the number of values and columns, and one value per line.
func WriteDefocusFile(path string, distribution []float64) error {
	if err := CheckExtension(path, "WriteDefocusFile", DefocusExt); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return &Error{err.Error(), path, []string{"os.Create", "WriteDefocusFile"}, true}
	}
	defer file.Close()
	out := bufio.NewWriter(file)
	fmt.Fprintln(out, simulatorBanner)
	fmt.Fprintf(out, "%d 1\n", len(distribution))
	for _, v := range distribution {
		fmt.Fprintln(out, formatFloat(v))
	}
	if err = out.Flush(); err != nil {
		return &Error{err.Error(), path, []string{"Flush", "WriteDefocusFile"}, true}
	}
	return file.Close()
}

// number of parameters taken by each supported distribution.
var distribParams = map[string]int{
	"constant":  1, //value
	"uniform":   2, //min, max
	"normal":    2, //mean, std
	"gaussian":  2,
	"lognormal": 2, //mu, sigma of the underlying normal
	"gamma":     2, //shape, scale
}

type sampler interface {
	Rand() float64
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

// SampleDefocus draws n defocus values (in um) from the distribution
// described by C, using rng as the source of randomness.
func SampleDefocus(C *CTF, n int, rng *rand.Rand) ([]float64, error) {
	if C == nil {
		return nil, newError("no CTF distribution given", "", "SampleDefocus")
	}
	if n < 0 {
		return nil, newError(fmt.Sprintf("%s: cannot draw %d defocus values", MalformedValue, n), "", "SampleDefocus")
	}
	kind := strings.ToLower(C.DistributionType)
	np, ok := distribParams[kind]
	if !ok {
		return nil, newError(fmt.Sprintf("%s: %q", UnknownDistrib, C.DistributionType), "", "SampleDefocus")
	}
	p := C.DistributionParameters
	if len(p) != np {
		return nil, newError(fmt.Sprintf("%s: %s takes %d, got %d", WrongParamCount, kind, np, len(p)), "", "SampleDefocus")
	}
	if rng == nil {
		rng = NewRand()
	}
	var s sampler
	switch kind {
	case "constant":
		s = constant(p[0])
	case "uniform":
		s = distuv.Uniform{Min: p[0], Max: p[1], Src: rng}
	case "normal", "gaussian":
		s = distuv.Normal{Mu: p[0], Sigma: p[1], Src: rng}
	case "lognormal":
		s = distuv.LogNormal{Mu: p[0], Sigma: p[1], Src: rng}
	case "gamma":
		if p[0] <= 0 || p[1] <= 0 {
			return nil, newError(fmt.Sprintf("%s: gamma shape and scale must be positive, got %v", MalformedValue, p), "", "SampleDefocus")
		}
		s = distuv.Gamma{Alpha: p[0], Beta: 1 / p[1], Src: rng}
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = s.Rand()
	}
	return ret, nil
}

// DefocusSummary returns the mean and standard deviation of the defocus values.
func DefocusSummary(defocus []float64) (mean, std float64) {
	return stat.MeanStdDev(defocus, nil)
}
