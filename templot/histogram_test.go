/*
 * histogram_test.go, part of gotem.
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

package templot

import (
	"os"
	"path/filepath"
	"testing"

	tem "github.com/rmera/gotem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefocusHistogram(Te *testing.T) {
	C := &tem.CTF{DistributionType: "normal", DistributionParameters: []float64{1.5, 0.3}}
	d, err := tem.SampleDefocus(C, 500, tem.NewSeededRand(2))
	require.NoError(Te, err)
	dir := Te.TempDir()
	for _, name := range []string{"defocus.png", "defocus.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, DefocusHistogram(d, 25, "4v6x defocus", path))
		info, err := os.Stat(path)
		require.NoError(Te, err)
		assert.Greater(Te, info.Size(), int64(0))
	}
	assert.Error(Te, DefocusHistogram(nil, 10, "empty", filepath.Join(dir, "empty.png")))
}
