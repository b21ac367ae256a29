/*
 * histogram.go, part of gotem.
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

//Package templot draws plots of the parameters of TEM simulations.
package templot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefocusHistogram draws a histogram of the defocus values (in um) with the
// given number of bins, and saves it to filename. The format is deduced
// from the file extension (png, svg, pdf, etc.).
func DefocusHistogram(defocus []float64, bins int, title, filename string) error {
	if len(defocus) == 0 {
		return fmt.Errorf("DefocusHistogram: no defocus values given")
	}
	if bins <= 0 {
		bins = 10
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Defocus (um)"
	p.Y.Label.Text = "Images"
	h, err := plotter.NewHist(plotter.Values(defocus), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	p.Add(plotter.NewGrid())
	//here I  intentionally shadow err.
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return err
	}
	return nil
}
