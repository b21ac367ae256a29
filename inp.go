/*
 * inp.go, part of gotem.
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
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// formatFloat renders v the way non-integer settings and defocus values
// are written in TEM-simulator inputs: shortest representation, with at
// least one decimal for integral values (1.0), and exponents only for very
// large or very small magnitudes.
func formatFloat(v float64) string {
	a := math.Abs(v)
	if a != 0 && (a < 1e-4 || a >= 1e16) || math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteTo writes the simulator input for P to w, in the format expected by
// the TEM-simulator. Numbers are written as they were given, so integers
// keep no decimal point. It implements io.WriterTo.
func (P *Parameters) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	line := func(key string, val interface{}) {
		fmt.Fprintf(&b, "%s = %v\n", key, val)
	}

	b.WriteString("=== simulation ===\n")
	line("generate_micrographs", "yes")
	line("rand_seed", P.Simulation.Seed)
	line("log_file", P.Simulation.LogFile)

	b.WriteString("=== sample ===\n")
	line("diameter", P.Sample.Diameter)
	line("thickness_edge", P.Sample.ThicknessEdge)
	line("thickness_center", P.Sample.ThicknessCenter)

	fmt.Fprintf(&b, "=== particle %s ===\n", P.Particle.Name)
	line("source", "pdb")
	line("voxel_size", P.Particle.VoxelSize)
	line("pdb_file_in", P.Particle.PDBFile)
	if P.Particle.MapFileReOut != "" {
		line("map_file_re_out", P.Particle.MapFileReOut)
		line("map_file_im_out", P.Particle.MapFileImOut)
	}

	b.WriteString("=== particleset ===\n")
	line("particle_type", P.ParticleSet.Name)
	line("particle_coords", "file")
	line("coord_file_in", P.ParticleSet.CrdFile)

	b.WriteString("=== geometry ===\n")
	line("gen_tilt_data", "yes")
	line("tilt_axis", 0)
	line("ntilts", P.Geometry.NTilts)
	line("theta_start", 0)
	line("theta_incr", 0)
	line("geom_errors", "none")

	b.WriteString("=== electronbeam ===\n")
	line("acc_voltage", P.Beam.Voltage)
	line("energy_spread", P.Beam.Spread)
	line("gen_dose", "yes")
	line("dose_per_im", P.Beam.DosePerIm)
	line("dose_sd", P.Beam.DoseSD)

	O := P.Optics
	b.WriteString("=== optics ===\n")
	line("magnification", O.Magnification)
	line("cs", O.Cs)
	line("cc", O.Cc)
	line("aperture", O.Aperture)
	line("focal_length", O.FocalLength)
	line("cond_ap_angle", O.CondApAngle)
	line("gen_defocus", O.GenDefocus)
	line("defocus_nominal", O.DefocusNominal)
	line("defocus_syst_error", O.DefocusSystError)
	line("defocus_nonsyst_error", O.DefocusNonsystError)
	if O.DefocusFileOut != "" {
		line("defocus_file_out", O.DefocusFileOut)
	}
	if O.DefocusFileIn != "" {
		line("defocus_file_in", O.DefocusFileIn)
	}

	D := P.Detector
	b.WriteString("=== detector ===\n")
	line("det_pix_x", D.DetPixX)
	line("det_pix_y", D.DetPixY)
	line("pixel_size", D.PixelSize)
	line("gain", D.Gain)
	line("use_quantization", D.UseQuantization)
	line("dqe", D.DQE)
	line("mtf_a", D.MTFA)
	line("mtf_b", D.MTFB)
	line("mtf_c", D.MTFC)
	line("mtf_alpha", D.MTFAlpha)
	line("mtf_beta", D.MTFBeta)
	line("image_file_out", D.ImageFileOut)

	return b.WriteTo(w)
}

// WriteInp writes the simulator input for P to the .inp file path.
// The extension is checked before anything is created.
func WriteInp(path string, P *Parameters) error {
	if err := CheckExtension(path, "WriteInp", InpExt); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return &Error{err.Error(), path, []string{"os.Create", "WriteInp"}, true}
	}
	defer file.Close()
	if _, err = P.WriteTo(file); err != nil {
		return &Error{err.Error(), path, []string{"WriteTo", "WriteInp"}, true}
	}
	return file.Close()
}
