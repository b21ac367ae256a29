/*
 * helpers_test.go, part of gotem.
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
	"os"
	"strings"
)

func readFixture(name string) (string, error) {
	b, err := os.ReadFile(name)
	return string(b), err
}

// logRecorder replaces the package logger with one that stores the
// messages, and returns a pointer to them.
func logRecorder() *[]string {
	msgs := new([]string)
	SetLogger(func(format string, v ...interface{}) {
		*msgs = append(*msgs, fmt.Sprintf(format, v...))
	})
	return msgs
}

func anyContains(msgs []string, sub string) bool {
	for _, v := range msgs {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}

// num and whole build the Numbers decoded from YAML floats and integers.
func num(v float64) Number {
	return Number{Value: v}
}

func whole(v float64) Number {
	return Number{Value: v, Integer: true}
}
