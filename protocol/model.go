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

// Package protocol layers the Message, Action and Instruction roles on top of
// the schema engine and the type registry: it owns every OpenFlow 1.3 variant
// declaration and dispatches encoding to an Encoder.
package protocol

import (
	"errors"
	"fmt"

	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"
	"k8s.io/klog"
)

// ErrUnknownVariant is returned for names or objects the model never declared.
var ErrUnknownVariant = errors.New("unknown variant")

// EncodeFunc is the encode routine of one variant, usually a method
// expression on Encoder such as Encoder.PackSetQueue.
type EncodeFunc func(Encoder, schema.Params) error

type variant struct {
	encode EncodeFunc
	// composite names the list field whose elements are encoded in place of
	// the object itself.
	composite string
}

type variantName struct {
	role schema.Role
	name string
}

// Model is the declared set of variants together with their registry. It is
// built once by Load (or by Declare calls followed by Freeze) and read-only
// afterwards, so it may be shared between goroutines.
type Model struct {
	registry *registry.Registry
	variants map[*schema.Schema]*variant
	byName   map[variantName]*schema.Schema
	order    []*schema.Schema
}

func NewModel(c registry.Catalog) *Model {
	return &Model{
		registry: registry.New(c),
		variants: make(map[*schema.Schema]*variant),
		byName:   make(map[variantName]*schema.Schema),
	}
}

// Declare builds b, registers it and binds its encode routine. Without
// explicit keys the schema is auto-registered in the families of its role.
// A nil encode marks a decode-only variant.
func (m *Model) Declare(b *schema.Builder, encode EncodeFunc, keys ...registry.Key) (*schema.Schema, error) {
	return m.declare(b, &variant{encode: encode}, keys)
}

// DeclareComposite declares a variant encoded by dispatching every element
// of its list field in order.
func (m *Model) DeclareComposite(b *schema.Builder, field string, keys ...registry.Key) (*schema.Schema, error) {
	return m.declare(b, &variant{composite: field}, keys)
}

func (m *Model) declare(b *schema.Builder, v *variant, keys []registry.Key) (*schema.Schema, error) {
	if m.registry.Frozen() {
		return nil, registry.ErrFrozen
	}
	name := variantName{role: b.Role(), name: b.Name()}
	if _, ok := m.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s %s declared twice", schema.ErrDeclaration, name.role, name.name)
	}

	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	if v.composite != "" {
		f, ok := s.Field(v.composite)
		if !ok || f.Kind() != schema.NestedList {
			return nil, fmt.Errorf("%w: %s has no object list %q", schema.ErrDeclaration, s.Name(), v.composite)
		}
	}

	if len(keys) > 0 {
		err = m.registry.Register(s, keys...)
	} else {
		_, err = m.registry.AutoRegister(s, Families(s.Role())...)
	}
	if err != nil {
		return nil, err
	}

	m.variants[s] = v
	m.byName[name] = s
	m.order = append(m.order, s)
	return s, nil
}

// Freeze ends the declaration phase.
func (m *Model) Freeze() {
	m.registry.Freeze()
}

func (m *Model) Registry() *registry.Registry {
	return m.registry
}

// Schema returns the declared schema of the given role and name.
func (m *Model) Schema(role schema.Role, name string) (*schema.Schema, bool) {
	s, ok := m.byName[variantName{role: role, name: name}]
	return s, ok
}

// Schemas lists every declared schema in declaration order.
func (m *Model) Schemas() []*schema.Schema {
	return append([]*schema.Schema(nil), m.order...)
}

// Encodable reports whether objects of s can be passed to Encode.
func (m *Model) Encodable(s *schema.Schema) bool {
	v, ok := m.variants[s]
	return ok && (v.encode != nil || v.composite != "")
}

// Construct builds an object of the named variant.
func (m *Model) Construct(role schema.Role, name string, input interface{}) (*schema.Object, error) {
	s, ok := m.Schema(role, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownVariant, role, name)
	}
	if s.Abstract() {
		return nil, fmt.Errorf("%w: %s %q is abstract", ErrUnknownVariant, role, name)
	}
	return schema.Construct(s, input)
}

// Lookup resolves a wire code to its schema. ok is false for codes nothing
// was registered under.
func (m *Model) Lookup(f registry.Family, code uint64) (*schema.Schema, bool) {
	return m.registry.Lookup(f, code)
}

func (m *Model) CodeOf(s *schema.Schema) (registry.Key, bool) {
	return m.registry.CodeOf(s)
}

// Encode gathers the set fields of obj and hands them to the encode routine
// of its variant. Composite variants instead encode each element of their
// list field, in order. Encoder errors are returned unchanged.
func (m *Model) Encode(obj *schema.Object, enc Encoder) error {
	return m.encode(obj, obj.Params(), enc)
}

// EncodeMessage encodes a message bound for the given datapath. The datapath
// id is merged into the gathered record as "datapath_id".
func (m *Model) EncodeMessage(obj *schema.Object, datapathID uint64, enc Encoder) error {
	if obj.Schema().Role() != schema.RoleMessage {
		return fmt.Errorf("%s is a %s, not a message", obj.Name(), obj.Schema().Role())
	}
	p := obj.Params()
	p["datapath_id"] = schema.UintValue(schema.Uint64, datapathID)
	return m.encode(obj, p, enc)
}

func (m *Model) encode(obj *schema.Object, p schema.Params, enc Encoder) error {
	v, ok := m.variants[obj.Schema()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, obj.Name())
	}

	if v.composite != "" {
		for _, nested := range p.List(v.composite) {
			if err := m.Encode(nested, enc); err != nil {
				return err
			}
		}
		return nil
	}

	if v.encode == nil {
		return fmt.Errorf("%w: %s", ErrNoEncodeRoutine, obj.Name())
	}
	klog.V(5).Infof("encoding %s via %s", obj, RoutineName(obj.Schema()))
	return v.encode(enc, p)
}
