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

// FieldSpec describes one declared field of a schema.
type FieldSpec struct {
	name     string
	kind     Kind
	required bool
	alias    string

	hasRange bool
	min, max uint64

	hasDefault bool
	literal    interface{}
	producer   func() interface{}

	validate func(Value) error

	nested   *Schema
	elements Role
}

// Option configures a field at declaration time.
type Option func(*FieldSpec)

// Required marks the field as mandatory.
func Required() Option {
	return func(f *FieldSpec) { f.required = true }
}

// Default sets a literal default, copied into every constructed object.
func Default(v interface{}) Option {
	return func(f *FieldSpec) {
		f.hasDefault = true
		f.literal = v
		f.producer = nil
	}
}

// DefaultFunc sets a default producer, invoked once per construction.
func DefaultFunc(fn func() interface{}) Option {
	return func(f *FieldSpec) {
		f.hasDefault = true
		f.literal = nil
		f.producer = fn
	}
}

// Alias gives the field a second accessor name.
func Alias(name string) Option {
	return func(f *FieldSpec) { f.alias = name }
}

// Range narrows the accepted values of an integer field to [min, max].
func Range(min, max uint64) Option {
	return func(f *FieldSpec) {
		f.hasRange = true
		f.min = min
		f.max = max
	}
}

// Validate installs a custom predicate, run after type and range checks.
func Validate(fn func(Value) error) Option {
	return func(f *FieldSpec) { f.validate = fn }
}

// OneOf restricts an integer field to an enumerated set of values.
func OneOf(values ...uint64) Option {
	allowed := make([]string, 0, len(values))
	for _, v := range values {
		allowed = append(allowed, fmt.Sprintf("%#x", v))
	}
	return Validate(func(v Value) error {
		for _, a := range values {
			if v.Uint() == a {
				return nil
			}
		}
		return fmt.Errorf("%#x is not one of %s", v.Uint(), strings.Join(allowed, ", "))
	})
}

// Of constrains a nested field to objects of s (or its descendants). Keyed
// maps supplied for such a field are constructed against s.
func Of(s *Schema) Option {
	return func(f *FieldSpec) { f.nested = s }
}

// Elements constrains a nested field to objects of the given role.
func Elements(r Role) Option {
	return func(f *FieldSpec) { f.elements = r }
}

func (f *FieldSpec) Name() string     { return f.name }
func (f *FieldSpec) Kind() Kind       { return f.kind }
func (f *FieldSpec) Required() bool   { return f.required }
func (f *FieldSpec) Alias() string    { return f.alias }
func (f *FieldSpec) HasDefault() bool { return f.hasDefault }
func (f *FieldSpec) Nested() *Schema  { return f.nested }

// Bounds returns the inclusive range accepted by an integer field.
func (f *FieldSpec) Bounds() (uint64, uint64) {
	if f.hasRange {
		return f.min, f.max
	}
	return 0, f.kind.MaxValue()
}

func (f *FieldSpec) defaultValue() interface{} {
	if f.producer != nil {
		return f.producer()
	}
	switch v := f.literal.(type) {
	case []byte:
		return append([]byte(nil), v...)
	case []*Object:
		return append([]*Object(nil), v...)
	}
	return f.literal
}

// set runs the validating setter. A nil input on an optional field yields
// an invalid Value and no error.
func (f *FieldSpec) set(owner string, in interface{}) (Value, error) {
	if isNil(in) {
		if f.required {
			return Value{}, &MissingRequiredFieldError{Schema: owner, Fields: []string{f.name}}
		}
		return Value{}, nil
	}

	var (
		val Value
		err error
	)
	if f.kind.Integer() {
		val, err = f.setInteger(owner, in)
	} else {
		val, err = f.setOther(owner, in)
	}
	if err != nil {
		return Value{}, err
	}

	if f.validate != nil {
		if verr := f.validate(val); verr != nil {
			return Value{}, &InvalidFieldValueError{Schema: owner, Field: f.name, Reason: verr.Error()}
		}
	}
	return val, nil
}

func (f *FieldSpec) setInteger(owner string, in interface{}) (Value, error) {
	n, negative, ok := integerLike(in)
	if !ok {
		return Value{}, f.mismatch(owner, in)
	}
	min, max := f.Bounds()
	if negative || n < min || n > max {
		return Value{}, &OutOfRangeError{Schema: owner, Field: f.name, Min: min, Max: max, Got: in}
	}
	return UintValue(f.kind, n), nil
}

func (f *FieldSpec) setOther(owner string, in interface{}) (Value, error) {
	switch f.kind {
	case Bool:
		if b, ok := in.(bool); ok {
			return BoolValue(b), nil
		}
	case Bytes:
		if b, ok := bytesLike(in); ok {
			return BytesValue(b), nil
		}
	case Text:
		if s, ok := in.(string); ok {
			return TextValue(s), nil
		}
	case MAC:
		switch v := in.(type) {
		case net.HardwareAddr:
			return MACValue(append(net.HardwareAddr(nil), v...)), nil
		case string:
			mac, err := net.ParseMAC(v)
			if err != nil {
				return Value{}, &InvalidFieldValueError{Schema: owner, Field: f.name, Reason: fmt.Sprintf("invalid MAC address %q", v)}
			}
			return MACValue(mac), nil
		}
	case IP:
		switch v := in.(type) {
		case net.IP:
			return IPValue(append(net.IP(nil), v...)), nil
		case string:
			ip := net.ParseIP(v)
			if ip == nil {
				return Value{}, &InvalidFieldValueError{Schema: owner, Field: f.name, Reason: fmt.Sprintf("invalid IP address %q", v)}
			}
			return IPValue(ip), nil
		}
	case Nested:
		obj, err := f.nestedObject(owner, in)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(obj), nil
	case NestedList:
		items, ok := listLike(in)
		if !ok {
			break
		}
		list := make([]*Object, 0, len(items))
		for _, item := range items {
			obj, err := f.nestedObject(owner, item)
			if err != nil {
				return Value{}, err
			}
			list = append(list, obj)
		}
		return ListValue(list), nil
	}
	return Value{}, f.mismatch(owner, in)
}

func (f *FieldSpec) nestedObject(owner string, in interface{}) (*Object, error) {
	switch v := in.(type) {
	case *Object:
		if v == nil {
			break
		}
		if f.nested != nil && !v.Schema().Is(f.nested) {
			return nil, &TypeMismatchError{Schema: owner, Field: f.name, Expected: f.nested.Name(), Got: v.Schema().Name()}
		}
		if f.elements != RoleNone && v.Schema().Role() != f.elements {
			return nil, &TypeMismatchError{Schema: owner, Field: f.name, Expected: f.elements.String(), Got: v.Schema().Name()}
		}
		return v, nil
	case map[string]interface{}, Fields:
		if f.nested != nil {
			return Construct(f.nested, v)
		}
	}
	return nil, f.mismatch(owner, in)
}

func (f *FieldSpec) mismatch(owner string, in interface{}) error {
	expected := f.kind.String()
	if f.nested != nil {
		expected = fmt.Sprintf("%s (%s)", expected, f.nested.Name())
	}
	return &TypeMismatchError{Schema: owner, Field: f.name, Expected: expected, Got: fmt.Sprintf("%T", in)}
}

func isNil(in interface{}) bool {
	switch v := in.(type) {
	case nil:
		return true
	case *Object:
		return v == nil
	case []byte:
		return v == nil
	case net.HardwareAddr:
		return v == nil
	case net.IP:
		return v == nil
	}
	return false
}

// integerLike accepts every Go integer type and reports the magnitude and
// sign separately so that negative input can be rejected as out of range.
func integerLike(in interface{}) (uint64, bool, bool) {
	var signed int64
	switch v := in.(type) {
	case uint:
		return uint64(v), false, true
	case uint8:
		return uint64(v), false, true
	case uint16:
		return uint64(v), false, true
	case uint32:
		return uint64(v), false, true
	case uint64:
		return v, false, true
	case int:
		signed = int64(v)
	case int8:
		signed = int64(v)
	case int16:
		signed = int64(v)
	case int32:
		signed = int64(v)
	case int64:
		signed = v
	default:
		return 0, false, false
	}
	if signed < 0 {
		return uint64(-signed), true, true
	}
	return uint64(signed), false, true
}

func bytesLike(in interface{}) ([]byte, bool) {
	switch v := in.(type) {
	case []byte:
		return append([]byte(nil), v...), true
	case []int:
		out := make([]byte, 0, len(v))
		for _, n := range v {
			if n < 0 || n > 0xff {
				return nil, false
			}
			out = append(out, byte(n))
		}
		return out, true
	case []interface{}:
		out := make([]byte, 0, len(v))
		for _, item := range v {
			n, negative, ok := integerLike(item)
			if !ok || negative || n > 0xff {
				return nil, false
			}
			out = append(out, byte(n))
		}
		return out, true
	}
	return nil, false
}

func listLike(in interface{}) ([]interface{}, bool) {
	switch v := in.(type) {
	case []*Object:
		out := make([]interface{}, 0, len(v))
		for _, o := range v {
			out = append(out, o)
		}
		return out, true
	case []interface{}:
		return v, true
	case []map[string]interface{}:
		out := make([]interface{}, 0, len(v))
		for _, m := range v {
			out = append(out, m)
		}
		return out, true
	}
	return nil, false
}
