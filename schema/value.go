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

import (
	"fmt"
	"net"
	"strings"
)

// Value is one typed field slot. Only the member matching Kind is meaningful.
type Value struct {
	kind Kind
	num  uint64
	flag bool
	raw  []byte
	text string
	mac  net.HardwareAddr
	ip   net.IP
	obj  *Object
	list []*Object
}

func UintValue(k Kind, v uint64) Value  { return Value{kind: k, num: v} }
func BoolValue(v bool) Value            { return Value{kind: Bool, flag: v} }
func BytesValue(v []byte) Value         { return Value{kind: Bytes, raw: v} }
func TextValue(v string) Value          { return Value{kind: Text, text: v} }
func MACValue(v net.HardwareAddr) Value { return Value{kind: MAC, mac: v} }
func IPValue(v net.IP) Value            { return Value{kind: IP, ip: v} }
func ObjectValue(v *Object) Value       { return Value{kind: Nested, obj: v} }
func ListValue(v []*Object) Value       { return Value{kind: NestedList, list: v} }

// Kind returns the semantic kind held by the slot.
func (v Value) Kind() Kind { return v.kind }

func (v Value) Uint() uint64    { return v.num }
func (v Value) Bool() bool      { return v.flag }
func (v Value) Text() string    { return v.text }
func (v Value) Object() *Object { return v.obj }
func (v Value) IsValid() bool   { return v.kind != Invalid }

// Slice accessors return copies; an object never changes once constructed.

func (v Value) Bytes() []byte {
	if v.raw == nil {
		return nil
	}
	return append(make([]byte, 0, len(v.raw)), v.raw...)
}

func (v Value) MAC() net.HardwareAddr {
	if v.mac == nil {
		return nil
	}
	return append(make(net.HardwareAddr, 0, len(v.mac)), v.mac...)
}

func (v Value) IP() net.IP {
	if v.ip == nil {
		return nil
	}
	return append(make(net.IP, 0, len(v.ip)), v.ip...)
}

func (v Value) List() []*Object {
	if v.list == nil {
		return nil
	}
	return append(make([]*Object, 0, len(v.list)), v.list...)
}

// Interface returns the slot content as its natural Go type.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Uint8:
		return uint8(v.num)
	case Uint16:
		return uint16(v.num)
	case Uint32:
		return uint32(v.num)
	case Uint64:
		return v.num
	case Bool:
		return v.flag
	case Bytes:
		return v.Bytes()
	case Text:
		return v.text
	case MAC:
		return v.MAC()
	case IP:
		return v.IP()
	case Nested:
		return v.obj
	case NestedList:
		return v.List()
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case Uint8, Uint16, Uint32, Uint64:
		return fmt.Sprintf("%d", v.num)
	case Bool:
		return fmt.Sprintf("%t", v.flag)
	case Bytes:
		return fmt.Sprintf("%x", v.raw)
	case Text:
		return v.text
	case MAC:
		return v.mac.String()
	case IP:
		return v.ip.String()
	case Nested:
		if v.obj == nil {
			return "<nil>"
		}
		return v.obj.String()
	case NestedList:
		items := make([]string, 0, len(v.list))
		for _, o := range v.list {
			items = append(items, o.String())
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return "<invalid>"
}
