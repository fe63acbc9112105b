// Copyright 2024 The sudokusat Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package explore

import (
	"math/bits"
	"strconv"
	"strings"
)

// DigitSet is a set of digits in [1,9], stored as a bitmask.
type DigitSet uint16

// Has reports whether the set contains the digit.
func (d DigitSet) Has(digit int) bool {
	return digit >= 1 && digit <= 9 && d&(1<<(digit-1)) != 0
}

// Add returns the set with the digit added. Digits outside [1,9] are ignored.
func (d DigitSet) Add(digit int) DigitSet {
	if digit < 1 || digit > 9 {
		return d
	}
	return d | 1<<(digit-1)
}

// Size returns the number of digits in the set.
func (d DigitSet) Size() int {
	return bits.OnesCount16(uint16(d))
}

// Digits returns the members of the set in increasing order.
func (d DigitSet) Digits() []int {
	var out []int
	for digit := 1; digit <= 9; digit++ {
		if d.Has(digit) {
			out = append(out, digit)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (d DigitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, digit := range d.Digits() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(digit))
	}
	sb.WriteByte('}')
	return sb.String()
}
