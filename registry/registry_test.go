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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kube-ovs/ofschema/schema"
)

func build(t *testing.T, name string, role schema.Role) *schema.Schema {
	t.Helper()
	s, err := schema.Declare(name, role).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func Test_UpperSnake(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Group", "GROUP"},
		{"SetMplsTtl", "SET_MPLS_TTL"},
		{"CopyTtlOut", "COPY_TTL_OUT"},
		{"Ipv4SrcAddr", "IPV4_SRC_ADDR"},
		{"Icmpv6Code", "ICMPV6_CODE"},
		{"Ipv6NdTarget", "IPV6_ND_TARGET"},
		{"HTTPServer", "HTTP_SERVER"},
		{"FlowMod", "FLOW_MOD"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := UpperSnake(test.name); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}

	if got := ConstantName(ActionType, "PopVlan"); got != "OFPAT_POP_VLAN" {
		t.Errorf("unexpected constant name %q", got)
	}
	if got := ConstantName(MatchFieldType, "EthSrc"); got != "OFPXMT_OFB_ETH_SRC" {
		t.Errorf("unexpected constant name %q", got)
	}
}

func Test_AutoRegister(t *testing.T) {
	catalog := MapCatalog{
		"OFPAT_GROUP":        22,
		"OFPAT_POP_VLAN":     18,
		"OFPXMT_OFB_ETH_SRC": 4,
	}
	actions := []Family{ActionType, MatchFieldType}

	tests := []struct {
		name string
		want []Key
	}{
		{
			name: "Group",
			want: []Key{{Family: ActionType, Code: 22}},
		},
		{
			name: "EthSrc",
			want: []Key{{Family: MatchFieldType, Code: 4}},
		},
		{
			name: "NoSuchThing",
			want: nil,
		},
	}

	r := New(catalog)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := build(t, test.name, schema.RoleAction)
			keys, err := r.AutoRegister(s, actions...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.want, keys); diff != "" {
				t.Errorf("unexpected keys (-want +got):\n%s", diff)
			}
			for _, k := range test.want {
				got, ok := r.Lookup(k.Family, k.Code)
				if !ok || got != s {
					t.Errorf("lookup %s: expected %s, got %v", k, s.Name(), got)
				}
			}
			if _, ok := r.CodeOf(s); ok != (len(test.want) > 0) {
				t.Errorf("unexpected CodeOf result for %s", s.Name())
			}
		})
	}
}

func Test_ExplicitKey(t *testing.T) {
	r := New(MapCatalog{"OFPAT_GROUP_ACTION": 99})
	group := build(t, "GroupAction", schema.RoleAction)

	if err := r.Register(group, Key{Family: ActionType, Code: 22}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := r.Lookup(ActionType, 22)
	if !ok || s != group {
		t.Fatalf("expected GroupAction under action type 22, got %v", s)
	}
	if _, ok := r.Lookup(ActionType, 99); ok {
		t.Error("explicit registration must not consult the catalog")
	}
	if code, ok := r.CodeIn(group, ActionType); !ok || code != 22 {
		t.Errorf("expected code 22, got %d", code)
	}
}

func Test_DuplicateRegistration(t *testing.T) {
	r := New(MapCatalog{"OFPAT_OUTPUT": 0})
	output := build(t, "Output", schema.RoleAction)
	sendOut := build(t, "SendOutPort", schema.RoleAction)
	other := build(t, "Other", schema.RoleAction)

	if _, err := r.AutoRegister(output, ActionType); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(output, Key{Family: ActionType, Code: 0}); err != nil {
		t.Errorf("re-registering the same schema should be a no-op, got %v", err)
	}

	err := r.Register(sendOut, Key{Family: ActionType, Code: 1}, Key{Family: ActionType, Code: 0})
	var dup *DuplicateRegistrationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError, got %v", err)
	}
	if dup.Existing != "Output" || dup.Conflicting != "SendOutPort" || dup.Key.Code != 0 {
		t.Errorf("unexpected error contents: %+v", dup)
	}
	if _, ok := r.Lookup(ActionType, 1); ok {
		t.Error("a failed registration must not insert any key")
	}

	if err := r.Register(other, Key{Family: InstructionType, Code: 0}); err != nil {
		t.Errorf("same code in another family should be accepted, got %v", err)
	}
}

func Test_Frozen(t *testing.T) {
	r := New(nil)
	s := build(t, "Hello", schema.RoleMessage)
	r.Freeze()

	if !r.Frozen() {
		t.Fatal("expected registry to be frozen")
	}
	if err := r.Register(s, Key{Family: MessageType, Code: 0}); !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	if _, err := r.AutoRegister(s, MessageType); !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	if _, ok := r.Lookup(MessageType, 0); ok {
		t.Error("expected unregistered outcome")
	}
}

func Test_AbstractNotRegistered(t *testing.T) {
	r := New(MapCatalog{"OFPAT_FLEXIBLE_ACTION": 1})
	abstract, err := schema.Declare("FlexibleAction", schema.RoleAction).Abstract().Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys, err := r.AutoRegister(abstract, ActionType)
	if err != nil || len(keys) != 0 {
		t.Errorf("expected abstract schema to be skipped, got %v, %v", keys, err)
	}
}

func Test_Entries(t *testing.T) {
	r := New(nil)
	a := build(t, "A", schema.RoleAction)
	b := build(t, "B", schema.RoleAction)
	i := build(t, "I", schema.RoleInstruction)

	for _, reg := range []struct {
		s *schema.Schema
		k Key
	}{
		{b, Key{Family: ActionType, Code: 7}},
		{i, Key{Family: InstructionType, Code: 1}},
		{a, Key{Family: ActionType, Code: 3}},
	} {
		if err := r.Register(reg.s, reg.k); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []string
	for _, e := range r.Entries() {
		got = append(got, e.Key.String()+"="+e.Schema.Name())
	}
	want := []string{"action type 3=A", "action type 7=B", "instruction type 1=I"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", r.Len())
	}
}
