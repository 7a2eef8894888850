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

// Package schema declares typed protocol object fields and builds validated,
// immutable objects from keyed maps, scalars or nothing at all.
package schema

import (
	"fmt"
)

// Role is the capability role owning a schema.
type Role int

const (
	RoleNone Role = iota
	RoleMessage
	RoleAction
	RoleInstruction
)

func (r Role) String() string {
	switch r {
	case RoleMessage:
		return "message"
	case RoleAction:
		return "action"
	case RoleInstruction:
		return "instruction"
	}
	return "none"
}

// Schema is the declared, ordered field list of one variant. It is built once
// by a Builder and never modified afterwards.
type Schema struct {
	name     string
	role     Role
	parent   *Schema
	abstract bool

	fields   []*FieldSpec
	slots    map[string]int
	aliases  map[string]string
	required []string
}

func (s *Schema) Name() string    { return s.name }
func (s *Schema) Role() Role      { return s.role }
func (s *Schema) Parent() *Schema { return s.parent }

// Abstract schemas only exist to be extended.
func (s *Schema) Abstract() bool { return s.abstract }

func (s *Schema) NumFields() int { return len(s.fields) }

// Fields returns the field specs in declaration order, inherited ones first.
func (s *Schema) Fields() []*FieldSpec {
	return append([]*FieldSpec(nil), s.fields...)
}

// Field resolves a canonical field name or an alias.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	i, ok := s.slot(name)
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Canonical maps an alias to its canonical field name. Canonical names map
// to themselves.
func (s *Schema) Canonical(name string) (string, bool) {
	if _, ok := s.slots[name]; ok {
		return name, true
	}
	c, ok := s.aliases[name]
	return c, ok
}

// Aliases returns a copy of the alias table.
func (s *Schema) Aliases() map[string]string {
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// OwnRequired lists the required fields declared by this schema itself.
func (s *Schema) OwnRequired() []string {
	return append([]string(nil), s.required...)
}

// Required lists the fields that must hold a value at the end of
// construction. A schema without required fields of its own uses the list
// declared by its immediate parent. The fallback is one level deep only.
func (s *Schema) Required() []string {
	if len(s.required) == 0 && s.parent != nil {
		return s.parent.OwnRequired()
	}
	return s.OwnRequired()
}

// Is reports whether s is other or extends it.
func (s *Schema) Is(other *Schema) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%s)", s.name, s.role)
}

func (s *Schema) slot(name string) (int, bool) {
	if i, ok := s.slots[name]; ok {
		return i, true
	}
	if c, ok := s.aliases[name]; ok {
		i, ok := s.slots[c]
		return i, ok
	}
	return 0, false
}

// Builder collects field declarations for one schema.
type Builder struct {
	name     string
	role     Role
	parent   *Schema
	abstract bool
	fields   []*FieldSpec
}

// Declare starts the declaration of a schema.
func Declare(name string, role Role) *Builder {
	return &Builder{name: name, role: role}
}

func (b *Builder) Name() string { return b.name }
func (b *Builder) Role() Role   { return b.role }

// Extends inherits every field of parent. Fields declared again on the
// builder replace the inherited field in place.
func (b *Builder) Extends(parent *Schema) *Builder {
	b.parent = parent
	return b
}

func (b *Builder) Abstract() *Builder {
	b.abstract = true
	return b
}

// Field declares one field of the given kind for each name, all sharing opts.
func (b *Builder) Field(kind Kind, names []string, opts ...Option) *Builder {
	for _, name := range names {
		f := &FieldSpec{name: name, kind: kind}
		for _, opt := range opts {
			opt(f)
		}
		b.fields = append(b.fields, f)
	}
	return b
}

func (b *Builder) Uint8(name string, opts ...Option) *Builder {
	return b.Field(Uint8, []string{name}, opts...)
}

func (b *Builder) Uint16(name string, opts ...Option) *Builder {
	return b.Field(Uint16, []string{name}, opts...)
}

func (b *Builder) Uint32(name string, opts ...Option) *Builder {
	return b.Field(Uint32, []string{name}, opts...)
}

func (b *Builder) Uint64(name string, opts ...Option) *Builder {
	return b.Field(Uint64, []string{name}, opts...)
}

func (b *Builder) Bool(name string, opts ...Option) *Builder {
	return b.Field(Bool, []string{name}, opts...)
}

func (b *Builder) Bytes(name string, opts ...Option) *Builder {
	return b.Field(Bytes, []string{name}, opts...)
}

func (b *Builder) Text(name string, opts ...Option) *Builder {
	return b.Field(Text, []string{name}, opts...)
}

func (b *Builder) MAC(name string, opts ...Option) *Builder {
	return b.Field(MAC, []string{name}, opts...)
}

func (b *Builder) IP(name string, opts ...Option) *Builder {
	return b.Field(IP, []string{name}, opts...)
}

func (b *Builder) Object(name string, opts ...Option) *Builder {
	return b.Field(Nested, []string{name}, opts...)
}

func (b *Builder) List(name string, opts ...Option) *Builder {
	return b.Field(NestedList, []string{name}, opts...)
}

// Build validates the declarations and freezes them into a Schema.
func (b *Builder) Build() (*Schema, error) {
	if b.name == "" {
		return nil, fmt.Errorf("%w: schema has no name", ErrDeclaration)
	}
	if b.parent != nil && b.parent.role != b.role {
		return nil, fmt.Errorf("%w: %s is a %s but extends %s", ErrDeclaration, b.name, b.role, b.parent)
	}

	s := &Schema{
		name:     b.name,
		role:     b.role,
		parent:   b.parent,
		abstract: b.abstract,
		slots:    make(map[string]int),
		aliases:  make(map[string]string),
	}
	if b.parent != nil {
		s.fields = append(s.fields, b.parent.fields...)
	}
	for i, f := range s.fields {
		s.slots[f.name] = i
	}

	own := make(map[string]bool, len(b.fields))
	for _, f := range b.fields {
		if err := checkField(b.name, f); err != nil {
			return nil, err
		}
		if own[f.name] {
			return nil, fmt.Errorf("%w: %s declares field %q twice", ErrDeclaration, b.name, f.name)
		}
		own[f.name] = true

		if i, inherited := s.slots[f.name]; inherited {
			s.fields[i] = f
		} else {
			s.slots[f.name] = len(s.fields)
			s.fields = append(s.fields, f)
		}
		if f.required {
			s.required = append(s.required, f.name)
		}
	}

	for _, f := range s.fields {
		if f.alias == "" {
			continue
		}
		if _, taken := s.slots[f.alias]; taken {
			return nil, fmt.Errorf("%w: %s alias %q collides with a field name", ErrDeclaration, b.name, f.alias)
		}
		if other, taken := s.aliases[f.alias]; taken {
			return nil, fmt.Errorf("%w: %s alias %q already names %q", ErrDeclaration, b.name, f.alias, other)
		}
		s.aliases[f.alias] = f.name
	}
	return s, nil
}

func checkField(owner string, f *FieldSpec) error {
	if f.name == "" {
		return fmt.Errorf("%w: %s declares a field without a name", ErrDeclaration, owner)
	}
	if f.kind <= Invalid || f.kind > NestedList {
		return fmt.Errorf("%w: %s.%s has no valid kind", ErrDeclaration, owner, f.name)
	}
	if f.alias == f.name {
		return fmt.Errorf("%w: %s.%s is aliased to itself", ErrDeclaration, owner, f.name)
	}
	if f.hasRange {
		if !f.kind.Integer() {
			return fmt.Errorf("%w: %s.%s: range on a %s field", ErrDeclaration, owner, f.name, f.kind)
		}
		if f.min > f.max || f.max > f.kind.MaxValue() {
			return fmt.Errorf("%w: %s.%s: range %d..%d does not fit a %s", ErrDeclaration, owner, f.name, f.min, f.max, f.kind)
		}
	}
	if (f.nested != nil || f.elements != RoleNone) && f.kind != Nested && f.kind != NestedList {
		return fmt.Errorf("%w: %s.%s: object constraint on a %s field", ErrDeclaration, owner, f.name, f.kind)
	}
	if f.hasDefault && f.producer == nil {
		if _, err := f.set(owner, f.defaultValue()); err != nil {
			return fmt.Errorf("%w: %s.%s: bad default: %v", ErrDeclaration, owner, f.name, err)
		}
	}
	return nil
}
