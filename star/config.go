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

package star

import (
	"fmt"
	"os"

	tem "github.com/rmera/gotem"
	"gopkg.in/yaml.v3"
)

// GeneratorConfig contains the settings of a dataset generator that end
// up in each catalogue row.
type GeneratorConfig struct {
	BatchSize         int     `yaml:"batch_size"`
	KV                float64 `yaml:"kv"`
	PixelSize         float64 `yaml:"pixel_size"`
	Cs                float64 `yaml:"cs"`
	AmplitudeContrast float64 `yaml:"amplitude_contrast"`
	BFactor           float64 `yaml:"b_factor"`
}

// Acquisition returns the constant part of the catalogue rows.
func (G *GeneratorConfig) Acquisition() Acquisition {
	return Acquisition{
		KV:                G.KV,
		PixelSize:         G.PixelSize,
		Cs:                G.Cs,
		AmplitudeContrast: G.AmplitudeContrast,
		BFactor:           G.BFactor,
	}
}

// LoadGeneratorConfig reads a generator configuration from the YAML file path.
func LoadGeneratorConfig(path string) (*GeneratorConfig, error) {
	if err := tem.CheckExtension(path, "LoadGeneratorConfig", tem.ConfigExt); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{err.Error(), path, []string{"os.ReadFile", "LoadGeneratorConfig"}, true}
	}
	G := new(GeneratorConfig)
	if err := yaml.Unmarshal(data, G); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if G.BatchSize <= 0 {
		return nil, &Error{fmt.Sprintf("batch_size must be positive, got %d", G.BatchSize), path, []string{"LoadGeneratorConfig"}, true}
	}
	return G, nil
}
