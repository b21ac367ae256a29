/*
 * handle.go, part of gotem.
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
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Handle prepares and runs TEM-simulator jobs.
type Handle struct {
	command string
	inpfile string
	defocus []float64 //the defocus values written in the last BuildInput, if any.
}

func NewHandle() *Handle {
	run := new(Handle)
	run.SetDefaults()
	return run
}

// SetDefaults sets the TEM-simulator command to $TEM_SIMULATOR_PATH/TEM-simulator,
// or to ./TEM-simulator if that variable is not defined.
func (H *Handle) SetDefaults() {
	H.command = os.ExpandEnv("${TEM_SIMULATOR_PATH}/TEM-simulator")
	if H.command == "/TEM-simulator" {
		H.command = "./TEM-simulator"
	}
}

func (H *Handle) SetCommand(name string) {
	H.command = name
}

func (H *Handle) Command() string {
	return H.command
}

// Defocus returns the defocus values sampled by the last call to
// BuildInput, or nil if the simulator generates its own.
func (H *Handle) Defocus() []float64 {
	return H.defocus
}

// BuildInput writes the simulator input file paths.Inp for P. If P asks for
// an externally given defocus, n_tilts values are sampled from its CTF
// distribution using rng and written to P.Optics.DefocusFileIn. It also
// writes the coordinate file P.ParticleSet.CrdFile, with one randomly
// oriented particle per image, spread over the field of view.
func (H *Handle) BuildInput(P *Parameters, paths *PathSet, rng *rand.Rand) error {
	if P == nil || paths == nil {
		return newError("missing parameters or paths", "", "BuildInput")
	}
	H.defocus = nil
	if !P.Optics.GenDefocus {
		defocus, err := SampleDefocus(P.CTF, P.Geometry.NTilts, rng)
		if err != nil {
			err.(*Error).Decorate("BuildInput")
			return err
		}
		if err := WriteDefocusFile(P.Optics.DefocusFileIn, defocus); err != nil {
			return err
		}
		H.defocus = defocus
	}
	coords, err := RandomCoordinates(P.Geometry.NTilts, P.FieldOfView(), rng)
	if err != nil {
		err.(*Error).Decorate("BuildInput")
		return err
	}
	if err := WriteCoordinates(P.ParticleSet.CrdFile, coords); err != nil {
		return err
	}
	if err := WriteInp(paths.Inp, P); err != nil {
		return err
	}
	H.inpfile = paths.Inp
	return nil
}

// Run runs the TEM-simulator on the input built by the last BuildInput.
// The standard output goes to a file with the name of the input and the
// .out extension. It waits or not for the result depending on wait. If it
// doesn't wait, the output file stays open until the simulator exits.
func (H *Handle) Run(wait bool) error {
	if H.inpfile == "" {
		return newError("no input built", "", "Run")
	}
	outname := strings.TrimSuffix(H.inpfile, filepath.Ext(H.inpfile)) + ".out"
	out, err := os.Create(outname)
	if err != nil {
		return &Error{err.Error(), outname, []string{"os.Create", "Run"}, true}
	}
	command := exec.Command(H.command, H.inpfile)
	command.Stdout = out
	command.Stderr = out
	if wait {
		defer out.Close()
		if err := command.Run(); err != nil {
			return fmt.Errorf("running %s: %w", H.command, err)
		}
		return nil
	}
	if err := command.Start(); err != nil {
		out.Close()
		return fmt.Errorf("starting %s: %w", H.command, err)
	}
	go func() {
		command.Wait()
		out.Close()
	}()
	return nil
}
