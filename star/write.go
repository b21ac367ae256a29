/*
 * write.go, part of gotem.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	tem "github.com/rmera/gotem"
)

// Allowed catalogue file names. The compressed variants are written
// with gzip and zstd, respectively.
var Ext = []string{".star", ".star.gz", ".star.zst"}

// WriteTo writes the catalogue to w in star format. It implements io.WriterTo.
func (C *Catalogue) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	out := bufio.NewWriter(cw)
	out.WriteString("\ndata_\n\nloop_\n")
	for i, v := range C.Columns() {
		out.WriteString("_" + v + " #" + strconv.Itoa(i+1) + "\n")
	}
	for i := range C.Rows {
		out.WriteString(strings.Join(C.Rows[i].Fields(), " "))
		out.WriteString("\n")
	}
	err := out.Flush()
	return cw.n, err
}

// Write writes the catalogue C to path. The file name must end with
// .star, .star.gz or .star.zst, and is compressed accordingly.
func Write(path string, C *Catalogue) error {
	lower := strings.ToLower(path)
	var newWriter func(io.Writer) (io.WriteCloser, error)
	switch {
	case strings.HasSuffix(lower, ".star"):
		newWriter = nil
	case strings.HasSuffix(lower, ".star.gz"):
		newWriter = func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, gzip.BestCompression) }
	case strings.HasSuffix(lower, ".star.zst"):
		newWriter = func(a io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		}
	default:
		err := &tem.ExtensionError{Path: path, Allowed: Ext}
		tem.Logf("ERROR Write: %s", err.Error())
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return &Error{err.Error(), path, []string{"os.Create", "Write"}, true}
	}
	defer file.Close()
	var w io.Writer = file
	var h io.WriteCloser
	if newWriter != nil {
		if h, err = newWriter(file); err != nil {
			return &Error{err.Error(), path, []string{"newWriter", "Write"}, true}
		}
		w = h
	}
	if _, err = C.WriteTo(w); err != nil {
		return &Error{UnableToWrite + ": " + err.Error(), path, []string{"WriteTo", "Write"}, true}
	}
	if h != nil {
		if err = h.Close(); err != nil {
			return &Error{UnableToWrite + ": " + err.Error(), path, []string{"Close", "Write"}, true}
		}
	}
	return file.Close()
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
