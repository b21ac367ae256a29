/*
 * main.go, part of gotem.
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

//gotem prepares the input for a TEM-simulator run from a YAML description,
//optionally runs the simulator, and writes the star catalogue of the
//simulated images.
package main

import (
	"flag"
	"log"
	"math/rand/v2"

	tem "github.com/rmera/gotem"
	"github.com/rmera/gotem/star"
	"github.com/rmera/gotem/templot"
	"gonum.org/v1/gonum/mat"
)

func main() {
	log.SetPrefix("gotem: ")
	pdb := flag.String("pdb", "", "PDB file with the structure of the particle (required)")
	config := flag.String("config", "", "YAML file with the simulation parameters (required)")
	outdir := flag.String("out", "", "Output directory. Defaults to the directory of the PDB file")
	keyword := flag.String("keyword", "", "Keyword appended to the output files. Random if not given")
	run := flag.Bool("run", false, "Run the TEM-simulator after writing its input")
	simulator := flag.String("simulator", "", "TEM-simulator executable. Defaults to $TEM_SIMULATOR_PATH/TEM-simulator")
	plotfile := flag.String("plot", "", "If given, a histogram of the sampled defocus values is saved to this file")
	generator := flag.String("generator", "", "YAML file with the dataset generator settings. If given, the star catalogue is written after the run")
	starfile := flag.String("star", "", "Star catalogue file (.star, .star.gz or .star.zst). Defaults to the run's .star file")
	var ov tem.Overrides
	flag.Func("dose", "Electron dose per image in e/nm^2. Overrides the configuration", func(s string) error {
		d, err := tem.ParseNumber(s)
		if err != nil {
			return err
		}
		ov.Dose = &d
		return nil
	})
	flag.Func("noise", "yes or no. Overrides the detector noise setting of the configuration", func(s string) error {
		n, err := tem.ParseSwitch(s)
		if err != nil {
			return err
		}
		ov.Noise = &n
		return nil
	})
	flag.Parse()
	if *pdb == "" || *config == "" {
		flag.Usage()
		log.Fatal("both -pdb and -config are required")
	}

	C, err := tem.LoadConfig(*config)
	if err != nil {
		log.Fatal(err)
	}
	var rng *rand.Rand
	if C.Misc.Seed != nil {
		rng = tem.NewSeededRand(*C.Misc.Seed)
	} else {
		rng = tem.NewRand()
	}
	paths := tem.NewPathSet(*pdb, *config, *outdir, *keyword, rng)
	P, err := tem.NewParameters(C, paths, ov, rng)
	if err != nil {
		log.Fatal(err)
	}
	handle := tem.NewHandle()
	if *simulator != "" {
		handle.SetCommand(*simulator)
	}
	if err := handle.BuildInput(P, paths, rng); err != nil {
		log.Fatal(err)
	}
	log.Printf("input written to %s", paths.Inp)
	defocus := handle.Defocus()
	if defocus != nil {
		mean, std := tem.DefocusSummary(defocus)
		log.Printf("%d defocus values written to %s, mean %.4f um, std %.4f um", len(defocus), P.Optics.DefocusFileIn, mean, std)
		if *plotfile != "" {
			if err := templot.DefocusHistogram(defocus, 20, P.Particle.Name+" defocus", *plotfile); err != nil {
				log.Fatal(err)
			}
		}
	}
	if !*run {
		return
	}
	log.Printf("running %s", handle.Command())
	if err := handle.Run(true); err != nil {
		log.Fatal(err)
	}
	if *generator == "" {
		return
	}
	G, err := star.LoadGeneratorConfig(*generator)
	if err != nil {
		log.Fatal(err)
	}
	rotations, err := tem.RotationMetadata(paths.Crd)
	if err != nil {
		log.Fatal(err)
	}
	cat, err := catalogue(rotations, defocus, G)
	if err != nil {
		log.Fatal(err)
	}
	if *starfile == "" {
		*starfile = paths.Star
	}
	if err := star.Write(*starfile, cat); err != nil {
		log.Fatal(err)
	}
	log.Printf("%d catalogue rows written to %s", cat.Len(), *starfile)
}

// catalogue builds the star catalogue for the particles in rotations, in
// batches of G.BatchSize images. If defocus has a value for each particle,
// it is used as both defocus values of each image, with no astigmatism.
func catalogue(rotations [][]float64, defocus []float64, G *star.GeneratorConfig) (*star.Catalogue, error) {
	angles, err := tem.RotationMatrix(rotations)
	if err != nil {
		return nil, err
	}
	n, _ := angles.Dims()
	cat := star.NewCatalogue()
	useCTF := defocus != nil && len(defocus) >= n
	batchcfg := *G
	for it, first := 0, 0; first < n; it, first = it+1, first+G.BatchSize {
		last := min(first+G.BatchSize, n)
		batchcfg.BatchSize = last - first
		block := angles.Slice(first, last, 0, 3).(*mat.Dense)
		rot := &star.RotationBatch{
			Rot:  block.ColView(0),
			Tilt: block.ColView(1),
			Psi:  block.ColView(2),
		}
		var ctf *star.CTFBatch
		if useCTF {
			d := mat.NewVecDense(last-first, append([]float64(nil), defocus[first:last]...))
			ctf = &star.CTFBatch{DefocusU: d, DefocusV: d, DefocusAngle: mat.NewVecDense(last-first, nil)}
		}
		if _, err := star.AppendTEMRows(cat, rot, ctf, nil, it, &batchcfg); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
