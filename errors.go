/*
 * errors.go, part of gotem.
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
	"path/filepath"
	"strings"
)

// Error is the general error type for gotem. Besides the message, it carries
// the file involved (if any) and a "decoration" slice with the chain of
// callers the error went through.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("gotem error: %s", err.message)
	}
	return fmt.Sprintf("gotem error in %s: %s", err.filename, err.message)
}

// Decorate adds deco to the list of callers the error has gone through,
// and returns the updated list. An empty string only returns the list.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Critical() bool { return err.critical }

const (
	MissingKey      = "Missing required key"
	MalformedValue  = "Malformed value"
	UnableToOpen    = "Unable to open file"
	ParseError      = "Unable to parse numeric data"
	UnknownDistrib  = "Unknown defocus distribution"
	WrongParamCount = "Wrong number of distribution parameters"
)

func newError(message, filename, caller string) *Error {
	return &Error{message: message, filename: filename, deco: []string{caller}, critical: true}
}

// ExtensionError is returned when a path given to gotem does not have one of
// the suffixes allowed for its role. It is always fatal to the operation.
type ExtensionError struct {
	Path    string
	Allowed []string
	deco    []string
}

func (err *ExtensionError) Error() string {
	return fmt.Sprintf("file path %s must be of type(s) %v", err.Path, err.Allowed)
}

func (err *ExtensionError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err *ExtensionError) FileName() string { return err.Path }

func (err *ExtensionError) Critical() bool { return true }

// Allowed suffixes for each kind of file.
var (
	ConfigExt  = []string{".yml", ".yaml"}
	InpExt     = []string{".inp"}
	DefocusExt = []string{".txt"}
	CrdExt     = []string{".txt"}
)

// CheckExtension returns an *ExtensionError, after logging it, if the
// suffix of path (case-insensitive) is not among allowed.
func CheckExtension(path, caller string, allowed []string) error {
	suffix := strings.ToLower(filepath.Ext(path))
	for _, v := range allowed {
		if suffix == v {
			return nil
		}
	}
	err := &ExtensionError{Path: path, Allowed: allowed, deco: []string{caller}}
	Logf("ERROR %s: %s", caller, err.Error())
	return err
}
