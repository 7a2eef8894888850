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

	"k8s.io/klog"
)

// Fields is a keyed constructor input. Keys are canonical field names or
// aliases.
type Fields map[string]interface{}

// Object is one constructed protocol object: a value slot per field of its
// schema. Objects have no setters and are safe to share once built.
type Object struct {
	schema *Schema
	values []Value
}

// Construct builds an object of schema s from input, which may be nil, a
// keyed map (Fields or map[string]interface{}) or a single scalar.
func Construct(s *Schema, input interface{}) (*Object, error) {
	o := &Object{schema: s, values: make([]Value, len(s.fields))}

	var err error
	switch in := input.(type) {
	case Fields:
		err = o.assignKeyed(in)
	case map[string]interface{}:
		err = o.assignKeyed(in)
	default:
		if isNil(input) {
			err = o.assignKeyed(nil)
		} else {
			err = o.assignScalar(input)
		}
	}
	if err != nil {
		return nil, err
	}

	if missing := o.missingRequired(); len(missing) > 0 {
		return nil, &MissingRequiredFieldError{Schema: s.name, Fields: missing}
	}
	klog.V(6).Infof("constructed %s", o)
	return o, nil
}

func (o *Object) assignKeyed(in map[string]interface{}) error {
	fields := o.schema.fields

	for i, f := range fields {
		if _, ok := lookupInput(in, f); ok || !f.hasDefault {
			continue
		}
		v, err := f.set(o.schema.name, f.defaultValue())
		if err != nil {
			return err
		}
		o.values[i] = v
	}

	for i, f := range fields {
		raw, ok := lookupInput(in, f)
		if !ok {
			continue
		}
		v, err := f.set(o.schema.name, raw)
		if err != nil {
			return err
		}
		o.values[i] = v
	}
	return nil
}

func (o *Object) assignScalar(in interface{}) error {
	if len(o.schema.fields) != 1 {
		return &WrongArgumentCountError{Schema: o.schema.name, Fields: len(o.schema.fields)}
	}
	v, err := o.schema.fields[0].set(o.schema.name, in)
	if err != nil {
		return err
	}
	o.values[0] = v
	return nil
}

// lookupInput finds a field in keyed input, preferring its canonical name.
func lookupInput(in map[string]interface{}, f *FieldSpec) (interface{}, bool) {
	if in == nil {
		return nil, false
	}
	if v, ok := in[f.name]; ok {
		return v, true
	}
	if f.alias != "" {
		if v, ok := in[f.alias]; ok {
			return v, true
		}
	}
	return nil, false
}

func (o *Object) missingRequired() []string {
	var missing []string
	for _, name := range o.schema.Required() {
		if i, ok := o.schema.slots[name]; ok && !o.values[i].IsValid() {
			missing = append(missing, name)
		}
	}
	return missing
}

func (o *Object) Schema() *Schema { return o.schema }
func (o *Object) Name() string    { return o.schema.name }

// Get returns the value of a field addressed by canonical name or alias.
func (o *Object) Get(name string) (Value, bool) {
	i, ok := o.schema.slot(name)
	if !ok || !o.values[i].IsValid() {
		return Value{}, false
	}
	return o.values[i], true
}

// Has reports whether the field holds a value.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Params gathers every set field into a record keyed by canonical name.
func (o *Object) Params() Params {
	p := make(Params, len(o.values))
	for i, f := range o.schema.fields {
		if o.values[i].IsValid() {
			p[f.name] = o.values[i]
		}
	}
	return p
}

// Each calls fn for every set field in declaration order.
func (o *Object) Each(fn func(f *FieldSpec, v Value)) {
	for i, f := range o.schema.fields {
		if o.values[i].IsValid() {
			fn(f, o.values[i])
		}
	}
}

func (o *Object) String() string {
	var parts []string
	o.Each(func(f *FieldSpec, v Value) {
		parts = append(parts, fmt.Sprintf("%s: %s", f.name, v))
	})
	return fmt.Sprintf("%s{%s}", o.schema.name, strings.Join(parts, ", "))
}

// Params is the gathered field record handed to encoders. Accessors return
// the zero value for absent fields.
type Params map[string]Value

func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Params) Uint8(name string) uint8   { return uint8(p[name].Uint()) }
func (p Params) Uint16(name string) uint16 { return uint16(p[name].Uint()) }
func (p Params) Uint32(name string) uint32 { return uint32(p[name].Uint()) }
func (p Params) Uint64(name string) uint64 { return p[name].Uint() }
func (p Params) Bool(name string) bool     { return p[name].Bool() }
func (p Params) Bytes(name string) []byte  { return p[name].Bytes() }
func (p Params) Text(name string) string   { return p[name].Text() }

func (p Params) MAC(name string) net.HardwareAddr { return p[name].MAC() }
func (p Params) IP(name string) net.IP            { return p[name].IP() }
func (p Params) Object(name string) *Object       { return p[name].Object() }
func (p Params) List(name string) []*Object       { return p[name].List() }
