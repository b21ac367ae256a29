/*
 * doc.go, part of gotem.
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

/*Package tem prepares input for the TEM-simulator, a program that produces
transmission electron microscope images of biological samples, as used to
synthesize cryo-EM datasets.



	**gotem Capabilities**


    Reads a YAML description of a simulation (molecular model, specimen grid,
	beam, optics, detector, geometry, CTF and noise) into typed records,
	checking that every required key is present.

    Groups the configuration parameters of each subsystem into ordered lists.

    Builds the parameters for a simulator run, applying caller overrides for
	the electron dose and the detector noise.

    Writes the .inp input file and the defocus distribution file read by
	the TEM-simulator, and samples defocus values from uniform, normal,
	lognormal, gamma or constant distributions.

    Derives the names of all the files involved in a run.

    Places randomly oriented particles over the field of view and writes
	the coordinate file the TEM-simulator reads them from.

    Runs the TEM-simulator and reads the particle rotations back from the
	coordinate file.

    Catalogue (star file) rows for the simulated images are built by the
	star subpackage, and defocus histograms are plotted by templot.

The TEM-simulator must be obtained independently from its distributors.

*/
package tem
