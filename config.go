/*
 * config.go, part of gotem.
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
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawConfig is the YAML configuration as a nested mapping, keyed by
// subsystem name. It is what the classifier works on. Top-level keys
// that are not subsystems can hold any value, and are ignored.
type RawConfig map[string]interface{}

// Section returns the parameters of the subsystem name. An absent
// subsystem is a MissingKey error, and one that is not a mapping is a
// MalformedValue error. A subsystem with no keys gives an empty map.
func (R RawConfig) Section(name string) (map[string]interface{}, error) {
	val, ok := R[name]
	if !ok {
		return nil, newError(MissingKey+": "+name, "", "Section")
	}
	if val == nil {
		return map[string]interface{}{}, nil
	}
	sec, ok := val.(map[string]interface{})
	if !ok {
		return nil, newError(fmt.Sprintf("%s: %s must be a mapping, got %v", MalformedValue, name, val), "", "Section")
	}
	return sec, nil
}

// Config is the typed form of the YAML simulation description.
// Optional keys are pointers (or a nil slice), and are nil when absent.
type Config struct {
	Misc     Misc           `yaml:"miscellaneous"`
	Noise    NoiseParams    `yaml:"noise_parameters"`
	Grid     GridParams     `yaml:"specimen_grid_params"`
	Model    MolecularModel `yaml:"molecular_model"`
	Beam     BeamParams     `yaml:"beam_parameters"`
	Optics   OpticsParams   `yaml:"optics_parameters"`
	Detector DetectorParams `yaml:"detector_parameters"`
	Geometry GeometryParams `yaml:"geometry_parameters"`
	CTF      *CTFParams     `yaml:"ctf_parameters"`
}

type Misc struct {
	Seed *int64 `yaml:"seed"`
}

type NoiseParams struct {
	SignalToNoise   *float64 `yaml:"signal_to_noise"`
	SignalToNoiseDB *float64 `yaml:"signal_to_noise_db"`
}

// GridParams describes the hole in the specimen grid, in nm.
type GridParams struct {
	HoleDiameter     int      `yaml:"hole_diameter_nm"`
	ThicknessCenter  int      `yaml:"hole_thickness_center_nm"`
	ThicknessEdge    int      `yaml:"hole_thickness_edge_nm"`
	ParticleSlicePad *float64 `yaml:"particle_slice_pad"`
}

type MolecularModel struct {
	VoxelSize      Number  `yaml:"voxel_size_nm"`
	ParticleName   string  `yaml:"particle_name"`
	ParticleMRCOut *string `yaml:"particle_mrcout"` //if present, the volume map of the sample is written.
}

// BeamParams holds the electron beam settings. Voltage in kV, spread in V,
// doses in e/nm^2. Dose is a pointer since it can be given as an override
// instead.
type BeamParams struct {
	Voltage      Number  `yaml:"voltage_kv"`
	EnergySpread Number  `yaml:"energy_spread_v"`
	Dose         *Number `yaml:"electron_dose_e_per_nm2"`
	DoseStd      Number  `yaml:"electron_dose_std_e_per_nm2"`
}

// OpticsParams holds the microscope optics. Aberrations and focal length
// are in mm, aperture in um, aperture angle in mrad, defocus values in um.
type OpticsParams struct {
	Magnification       Number  `yaml:"magnification"`
	SphericalAberration Number  `yaml:"spherical_aberration_mm"`
	ChromaticAberration Number  `yaml:"chromatic_aberration_mm"`
	ApertureDiameter    Number  `yaml:"aperture_diameter_um"`
	FocalLength         Number  `yaml:"focal_length_mm"`
	ApertureAngle       Number  `yaml:"aperture_angle_mrad"`
	Defocus             *Number `yaml:"defocus_um"`
	DefocusSystError    Number  `yaml:"defocus_syst_error_um"`
	DefocusNonsystError Number  `yaml:"defocus_nonsyst_error_um"`
	DefocusOut          *string `yaml:"optics_defocusout"`
}

type DetectorParams struct {
	NX        int      `yaml:"detector_nx_px"`
	NY        int      `yaml:"detector_ny_px"`
	PixelSize Number   `yaml:"detector_pixel_size_um"`
	Gain      Number   `yaml:"average_gain_count_per_electron"`
	Noise     *Switch  `yaml:"noise"`
	DQE       Number   `yaml:"detector_q_efficiency"`
	MTF       []Number `yaml:"mtf_params"`
}

type GeometryParams struct {
	NSamples int `yaml:"n_samples"`
}

// CTFParams describes the distribution the defocus of each image is drawn
// from. Both fields must be present for the block to be used.
type CTFParams struct {
	DistributionType       *string   `yaml:"distribution_type"`
	DistributionParameters []float64 `yaml:"distribution_parameters"`
}

// Complete returns true if both the distribution type and its parameters
// are given.
func (C *CTFParams) Complete() bool {
	return C != nil && C.DistributionType != nil && C.DistributionParameters != nil
}

// Number of MTF parameters expected in detector_parameters.mtf_params
const NMTF = 5

// requiredKeys lists the keys that must be present in each section.
// The dose and noise keys are absent here, as they can be overridden,
// so they are checked when building the parameters.
var requiredKeys = []struct {
	section string
	keys    []string
}{
	{"specimen_grid_params", []string{"hole_diameter_nm", "hole_thickness_center_nm", "hole_thickness_edge_nm"}},
	{"molecular_model", []string{"voxel_size_nm", "particle_name"}},
	{"beam_parameters", []string{"voltage_kv", "energy_spread_v", "electron_dose_std_e_per_nm2"}},
	{"optics_parameters", []string{"magnification", "spherical_aberration_mm", "chromatic_aberration_mm",
		"aperture_diameter_um", "focal_length_mm", "aperture_angle_mrad", "defocus_syst_error_um",
		"defocus_nonsyst_error_um"}},
	{"detector_parameters", []string{"detector_nx_px", "detector_ny_px", "detector_pixel_size_um",
		"average_gain_count_per_electron", "detector_q_efficiency", "mtf_params"}},
	{"geometry_parameters", []string{"n_samples"}},
}

// integerKeys lists the keys that are written as integers in the simulator
// input, and so must have integral values.
var integerKeys = []struct {
	section string
	keys    []string
}{
	{"specimen_grid_params", []string{"hole_diameter_nm", "hole_thickness_center_nm", "hole_thickness_edge_nm"}},
	{"detector_parameters", []string{"detector_nx_px", "detector_ny_px"}},
	{"geometry_parameters", []string{"n_samples"}},
}

// integral returns true if val is a whole number.
func integral(val interface{}) bool {
	switch v := val.(type) {
	case int:
		return true
	case float64:
		return v == math.Trunc(v) && !math.IsInf(v, 0)
	}
	return false
}

// Validate checks that raw contains every required key, and that the
// typed configuration C is consistent.
func (C *Config) Validate(raw RawConfig) error {
	for _, v := range requiredKeys {
		sec, err := raw.Section(v.section)
		if err != nil {
			err.(*Error).Decorate("Validate")
			return err
		}
		for _, key := range v.keys {
			if _, ok := sec[key]; !ok {
				return newError(fmt.Sprintf("%s: %s.%s", MissingKey, v.section, key), "", "Validate")
			}
		}
	}
	for _, v := range integerKeys {
		sec, _ := raw.Section(v.section)
		for _, key := range v.keys {
			if !integral(sec[key]) {
				return newError(fmt.Sprintf("%s: %s.%s must be an integer, got %v", MalformedValue, v.section, key, sec[key]), "", "Validate")
			}
		}
	}
	if C.Geometry.NSamples < 0 {
		return newError(fmt.Sprintf("%s: geometry_parameters.n_samples must not be negative, got %d", MalformedValue, C.Geometry.NSamples), "", "Validate")
	}
	if len(C.Detector.MTF) != NMTF {
		return newError(fmt.Sprintf("%s: detector_parameters.mtf_params must have %d elements, got %d", MalformedValue, NMTF, len(C.Detector.MTF)), "", "Validate")
	}
	return nil
}

// ParseConfig decodes and validates a YAML simulation description.
func ParseConfig(data []byte) (*Config, RawConfig, error) {
	raw := make(RawConfig)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decoding raw configuration: %w", err)
	}
	C := new(Config)
	if err := yaml.Unmarshal(data, C); err != nil {
		return nil, nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := C.Validate(raw); err != nil {
		return nil, nil, err
	}
	return C, raw, nil
}

// LoadConfig reads the .yml/.yaml file in path and returns the validated
// configuration.
func LoadConfig(path string) (*Config, error) {
	if err := CheckExtension(path, "LoadConfig", ConfigExt); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{err.Error(), path, []string{"os.ReadFile", "LoadConfig"}, true}
	}
	C, _, err := ParseConfig(data)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = path
			e.Decorate("LoadConfig")
			return nil, e
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return C, nil
}

// LoadRawConfig reads the .yml/.yaml file in path as a nested mapping,
// without any validation.
func LoadRawConfig(path string) (RawConfig, error) {
	if err := CheckExtension(path, "LoadRawConfig", ConfigExt); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{err.Error(), path, []string{"os.ReadFile", "LoadRawConfig"}, true}
	}
	raw := make(RawConfig)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Switch is a yes/no setting, written as "yes" or "no" in simulator input.
// In YAML it can be given as yes/no, on/off or a boolean.
type Switch bool

func (s Switch) String() string {
	if s {
		return "yes"
	}
	return "no"
}

// ParseSwitch interprets str as a yes/no value.
func ParseSwitch(str string) (Switch, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "yes", "y", "true", "on":
		return true, nil
	case "no", "n", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: %q is not a yes/no value", MalformedValue, str)
}

func (s *Switch) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %s: expected a yes/no scalar", value.Line, MalformedValue)
	}
	v, err := ParseSwitch(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = v
	return nil
}

func (s Switch) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Number is a numeric setting that remembers whether it was given as an
// integer, so it is written back to the simulator input the same way
// (300 stays 300, 2.0 stays 2.0).
type Number struct {
	Value   float64
	Integer bool
}

func (n Number) String() string {
	if n.Integer {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return formatFloat(n.Value)
}

// ParseNumber interprets str as a Number. Strings without a decimal point
// or exponent give integral Numbers.
func ParseNumber(str string) (Number, error) {
	str = strings.TrimSpace(str)
	if i, err := strconv.ParseInt(str, 10, 64); err == nil {
		return Number{Value: float64(i), Integer: true}, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Number{}, fmt.Errorf("%s: %q is not a number", MalformedValue, str)
	}
	return Number{Value: f}, nil
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %s: expected a number", value.Line, MalformedValue)
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("line %d: %s: %w", value.Line, MalformedValue, err)
	}
	n.Value = f
	n.Integer = value.ShortTag() == "!!int"
	return nil
}

func (n Number) MarshalYAML() (interface{}, error) {
	if n.Integer {
		return int64(n.Value), nil
	}
	return n.Value, nil
}
