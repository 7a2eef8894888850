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

package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// Family is a wire-level namespace of numeric type codes. Prefix is the
// common prefix of the family's constants in the catalog.
type Family struct {
	Name   string
	Prefix string
}

var (
	MessageType          = Family{Name: "message type", Prefix: "OFPT"}
	ActionType           = Family{Name: "action type", Prefix: "OFPAT"}
	InstructionType      = Family{Name: "instruction type", Prefix: "OFPIT"}
	MatchFieldType       = Family{Name: "match-field type", Prefix: "OFPXMT_OFB"}
	MultipartRequestType = Family{Name: "multipart request type", Prefix: "OFPMP"}
	MultipartReplyType   = Family{Name: "multipart reply type", Prefix: "OFPMP"}
)

func (f Family) String() string {
	return f.Name
}

// Key addresses one registry slot.
type Key struct {
	Family Family
	Code   uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%s %d", k.Family, k.Code)
}

// Catalog resolves named protocol constants to their wire values.
type Catalog interface {
	Lookup(name string) (uint64, bool)
}

// MapCatalog is a Catalog backed by a plain map.
type MapCatalog map[string]uint64

func (c MapCatalog) Lookup(name string) (uint64, bool) {
	v, ok := c[name]
	return v, ok
}

var (
	lowerUpper = regexp.MustCompile(`([a-z\d])([A-Z])`)
	acronym    = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
)

// UpperSnake turns a CamelCase variant name into its word-separated,
// upper-cased form: "SetMplsTtl" becomes "SET_MPLS_TTL".
func UpperSnake(name string) string {
	s := acronym.ReplaceAllString(name, "${1}_${2}")
	s = lowerUpper.ReplaceAllString(s, "${1}_${2}")
	return strings.ToUpper(s)
}

// ConstantName derives the catalog constant a variant named name would
// carry in family f.
func ConstantName(f Family, name string) string {
	return f.Prefix + "_" + UpperSnake(name)
}
