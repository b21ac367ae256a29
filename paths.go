/*
 * paths.go, part of gotem.
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
	"path/filepath"
	"strings"
)

// PathSet contains the paths of all the files involved in one simulation run.
type PathSet struct {
	PDB      string //the structure of the particle
	Metadata string //the YAML simulation description
	Crd      string
	MRC      string
	Log      string
	Inp      string
	H5       string
	Star     string
	Defocus  string
}

const keywordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomKeyword returns "_" followed by 5 characters taken from A-Z and 0-9.
// If rng is nil, a fresh, randomly seeded source is used.
func RandomKeyword(rng *rand.Rand) string {
	if rng == nil {
		rng = NewRand()
	}
	var b strings.Builder
	b.WriteByte('_')
	for i := 0; i < 5; i++ {
		b.WriteByte(keywordChars[rng.IntN(len(keywordChars))])
	}
	return b.String()
}

// NewPathSet derives the output paths of a run from the PDB file pdb and
// the simulation description metadata. Outputs go to outdir, or to the
// directory containing pdb if outdir is empty. All output names are the stem
// of pdb followed by keyword; a random keyword is produced with rng when
// keyword is empty.
func NewPathSet(pdb, metadata, outdir, keyword string, rng *rand.Rand) *PathSet {
	if outdir == "" {
		outdir = filepath.Dir(pdb)
	}
	if keyword == "" {
		keyword = RandomKeyword(rng)
	}
	base := filepath.Base(pdb)
	stem := strings.TrimSuffix(base, filepath.Ext(base)) + keyword
	out := func(suffix string) string {
		return filepath.Join(outdir, stem+suffix)
	}
	return &PathSet{
		PDB:      filepath.Clean(pdb),
		Metadata: filepath.Clean(metadata),
		Crd:      out(".txt"),
		MRC:      out(".mrc"),
		Log:      out(".log"),
		Inp:      out(".inp"),
		H5:       out(".h5"),
		Star:     out(".star"),
		Defocus:  out("_defocus.txt"),
	}
}

// NewRand returns a *rand.Rand seeded from the runtime's random source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a deterministic *rand.Rand for seed.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}
