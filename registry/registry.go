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

// Package registry maps (family, code) pairs to variant schemas and back.
//
// A Registry is filled during a single-threaded declaration phase and then
// frozen. Lookups after Freeze need no locking since nothing mutates.
package registry

import (
	"sort"

	"github.com/kube-ovs/ofschema/schema"
	"k8s.io/klog"
)

type Registry struct {
	catalog Catalog
	frozen  bool

	byKey    map[Key]*schema.Schema
	bySchema map[*schema.Schema][]Key
}

// New returns an empty registry resolving derived constant names in c.
func New(c Catalog) *Registry {
	if c == nil {
		c = MapCatalog{}
	}
	return &Registry{
		catalog:  c,
		byKey:    make(map[Key]*schema.Schema),
		bySchema: make(map[*schema.Schema][]Key),
	}
}

// AutoRegister derives a constant name for s in every eligible family and
// registers s under each one the catalog knows. Families without a matching
// constant are skipped. Abstract schemas are never registered.
func (r *Registry) AutoRegister(s *schema.Schema, families ...Family) ([]Key, error) {
	if r.frozen {
		return nil, ErrFrozen
	}
	if s.Abstract() {
		return nil, nil
	}

	var keys []Key
	for _, f := range families {
		name := ConstantName(f, s.Name())
		code, ok := r.catalog.Lookup(name)
		if !ok {
			klog.V(4).Infof("%s: no %s constant %s, skipping", s.Name(), f, name)
			continue
		}
		keys = append(keys, Key{Family: f, Code: code})
	}
	return keys, r.Register(s, keys...)
}

// Register binds s to explicit keys, bypassing name derivation. Either every
// key is registered or none is. Registering the same schema under the same
// key twice is a no-op.
func (r *Registry) Register(s *schema.Schema, keys ...Key) error {
	if r.frozen {
		return ErrFrozen
	}
	for _, k := range keys {
		if existing, ok := r.byKey[k]; ok && existing != s {
			return &DuplicateRegistrationError{Key: k, Existing: existing.Name(), Conflicting: s.Name()}
		}
	}

	for _, k := range keys {
		if _, ok := r.byKey[k]; ok {
			continue
		}
		r.byKey[k] = s
		r.bySchema[s] = append(r.bySchema[s], k)
		klog.V(4).Infof("registered %s as %s", s.Name(), k)
	}
	return nil
}

// Freeze ends the declaration phase.
func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup resolves a wire code. An unknown code is reported by ok == false;
// callers decide whether that is fatal.
func (r *Registry) Lookup(f Family, code uint64) (*schema.Schema, bool) {
	s, ok := r.byKey[Key{Family: f, Code: code}]
	return s, ok
}

// CodeOf returns the first key s was registered under.
func (r *Registry) CodeOf(s *schema.Schema) (Key, bool) {
	keys := r.bySchema[s]
	if len(keys) == 0 {
		return Key{}, false
	}
	return keys[0], true
}

// CodeIn returns the code of s within family f.
func (r *Registry) CodeIn(s *schema.Schema, f Family) (uint64, bool) {
	for _, k := range r.bySchema[s] {
		if k.Family == f {
			return k.Code, true
		}
	}
	return 0, false
}

// Keys returns every key s was registered under, in registration order.
func (r *Registry) Keys(s *schema.Schema) []Key {
	return append([]Key(nil), r.bySchema[s]...)
}

// Entry is one registry slot.
type Entry struct {
	Key    Key
	Schema *schema.Schema
}

// Entries lists every registered slot ordered by family name, then code.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.byKey))
	for k, s := range r.byKey {
		entries = append(entries, Entry{Key: k, Schema: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if a.Family.Name != b.Family.Name {
			return a.Family.Name < b.Family.Name
		}
		return a.Code < b.Code
	})
	return entries
}

func (r *Registry) Len() int {
	return len(r.byKey)
}
