/*
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package schema

// Kind is the semantic type of a declared field.
type Kind int

const (
	Invalid Kind = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Bool
	Bytes
	Text
	MAC
	IP
	Nested
	NestedList
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	Uint8:      "unsigned 8-bit integer",
	Uint16:     "unsigned 16-bit integer",
	Uint32:     "unsigned 32-bit integer",
	Uint64:     "unsigned 64-bit integer",
	Bool:       "boolean",
	Bytes:      "byte sequence",
	Text:       "text",
	MAC:        "MAC address",
	IP:         "IP address",
	Nested:     "nested object",
	NestedList: "list of objects",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Width returns the bit width of an unsigned integer kind, or 0 for any
// other kind.
func (k Kind) Width() int {
	switch k {
	case Uint8:
		return 8
	case Uint16:
		return 16
	case Uint32:
		return 32
	case Uint64:
		return 64
	}
	return 0
}

// Integer reports whether k is a bounded unsigned integer kind.
func (k Kind) Integer() bool {
	return k.Width() != 0
}

// MaxValue is the largest value representable by an integer kind.
func (k Kind) MaxValue() uint64 {
	w := k.Width()
	if w == 0 {
		return 0
	}
	if w == 64 {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}
