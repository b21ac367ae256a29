/*
 * classify.go, part of gotem.
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

import "fmt"

// Classified groups the parameters of each subsystem in a list, in the
// order given by the classifier schema.
type Classified map[string][]interface{}

// The order of the parameters for each subsystem. Note that the beam schema
// uses its own name for the dose key.
var classifierSchema = []struct {
	subsystem string
	order     []string
}{
	{"molecular_model", []string{"voxel_size_nm", "particle_name", "particle_mrcout"}},
	{"specimen_grid_params", []string{
		"hole_diameter_nm",
		"hole_thickness_center_nm",
		"hole_thickness_edge_nm",
		"particle_slice_pad",
	}},
	{"beam_parameters", []string{
		"voltage_kv",
		"energy_spread_v",
		"electron_dose_e_nm2",
		"electron_dose_std_e_per_nm2",
	}},
	{"optics_parameters", []string{
		"magnification",
		"spherical_aberration_mm",
		"chromatic_aberration_mm",
		"aperture_diameter_um",
		"focal_length_mm",
		"aperture_angle_mrad",
		"defocus_um",
		"defocus_syst_error_um",
		"defocus_nonsyst_error_um",
		"optics_defocusout",
	}},
	{"detector_parameters", []string{
		"detector_nx_px",
		"detector_ny_px",
		"detector_pixel_size_um",
		"average_gain_count_per_electron",
		"noise",
		"detector_q_efficiency",
		"mtf_params",
	}},
}

// Classify takes the raw configuration and groups the parameters of each
// subsystem into an ordered list. Missing keys give nil in their slot, and
// top-level keys other than the subsystems are ignored. For the
// detector, the mtf_params list is unpacked into the last 5 positions, so the
// detector list has 11 elements.
func Classify(raw RawConfig) (Classified, error) {
	ret := make(Classified, len(classifierSchema))
	for _, v := range classifierSchema {
		params, err := raw.Section(v.subsystem)
		if err != nil {
			err.(*Error).Decorate("Classify")
			return nil, err
		}
		ordered := make([]interface{}, 0, len(v.order)+NMTF)
		for _, key := range v.order {
			ordered = append(ordered, params[key])
		}
		if v.subsystem != "detector_parameters" {
			ret[v.subsystem] = ordered
			continue
		}
		last := len(ordered) - 1
		mtf, err := unpackMTF(ordered[last])
		if err != nil {
			return nil, err
		}
		ret[v.subsystem] = append(ordered[:last], mtf...)
	}
	return ret, nil
}

func unpackMTF(val interface{}) ([]interface{}, error) {
	if val == nil {
		return make([]interface{}, NMTF), nil
	}
	list, ok := val.([]interface{})
	if !ok || len(list) != NMTF {
		return nil, newError(fmt.Sprintf("%s: mtf_params must be a list of %d values, got %v", MalformedValue, NMTF, val), "", "Classify")
	}
	return list, nil
}

// ClassifiedFromFile loads the YAML file in path and classifies its parameters.
func ClassifiedFromFile(path string) (Classified, error) {
	raw, err := LoadRawConfig(path)
	if err != nil {
		return nil, err
	}
	c, err := Classify(raw)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = path
			e.Decorate("ClassifiedFromFile")
		}
		return nil, err
	}
	return c, nil
}
