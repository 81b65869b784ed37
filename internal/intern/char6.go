// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package intern

import (
	"strings"
)

// maxInlined is how many sextets fit in an ID after the sign bit.
const maxInlined = 32 / 6

var (
	// The alphabet is digits, lower-case letters, upper-case letters, then
	// _ and ., putting . at 0b111111 (077) so it can double as inline
	// padding. LLVM's char6 orders the letters first and places . before _.
	sextetToByte = []byte("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_.")
	byteToSextet = func() []byte {
		out := make([]byte, 256)
		for i := range out {
			out[i] = 0xff
		}
		for j, b := range sextetToByte {
			out[int(b)] = byte(j)
		}
		return out
	}()
)

// encodeChar6 attempts to pack s into an ID's own bits. Reports whether the
// packing succeeded.
func encodeChar6(s string) (ID, bool) {
	if s == "" {
		return 0, true
	}
	if len(s) > maxInlined || strings.HasSuffix(s, ".") {
		return 0, false
	}

	// The loop is outlined so the two checks above inline into
	// Table.Intern's fast path.
	return encodeOutlined(s)
}

func encodeOutlined(s string) (ID, bool) {
	// Shifting sextets into an all-ones value gives two properties at once:
	//
	// 1. The sign bit stays set, which is what marks the ID as inline.
	//
	// 2. Unused trailing sextets remain 077, aka '.'. Trailing periods are
	//    rejected above, so the run of trailing periods recovers the
	//    original length: "foo" round-trips via the bits of "foo..".
	value := ID(-1)
	for i := len(s) - 1; i >= 0; i-- {
		sextet := byteToSextet[s[i]]
		if sextet == 0xff {
			return 0, false
		}
		value <<= 6
		value |= ID(sextet)
	}

	return value, true
}

// decodeChar6 unpacks an inline ID back into its string.
func decodeChar6(id ID) string {
	// Outlining the loop keeps decodeChar6 itself inlinable, so the result
	// can be stack-promoted by the caller.
	buf, n := decodeOutlined(id)
	return string(buf[:n])
}

func decodeOutlined(id ID) ([maxInlined]byte, int) {
	var buf [maxInlined]byte
	for i := range buf {
		buf[i] = sextetToByte[int(id&077)]
		id >>= 6
	}

	// Strip the maximal run of trailing periods to recover the length. An
	// all-ones ID would decode as "", but encodeOutlined never produces it.
	n := maxInlined
	for ; n > 0; n-- {
		if buf[n-1] != '.' {
			break
		}
	}

	return buf, n
}
