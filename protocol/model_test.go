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

package protocol

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/google/go-cmp/cmp"
	"github.com/kube-ovs/ofschema/catalog"
	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"
)

type recorder struct {
	UnimplementedEncoder
	calls  []string
	params []schema.Params
	err    error
}

func (r *recorder) record(routine string, p schema.Params) error {
	r.calls = append(r.calls, routine)
	r.params = append(r.params, p)
	return r.err
}

func (r *recorder) PackDecIpTtl(p schema.Params) error   { return r.record("PackDecIpTtl", p) }
func (r *recorder) PackEthSrc(p schema.Params) error     { return r.record("PackEthSrc", p) }
func (r *recorder) PackSetQueue(p schema.Params) error   { return r.record("PackSetQueue", p) }
func (r *recorder) PackFlowModMsg(p schema.Params) error { return r.record("PackFlowModMsg", p) }

func load(t *testing.T) *Model {
	t.Helper()
	m, err := Load(catalog.OFP13())
	if err != nil {
		t.Fatalf("failed to load model: %v", err)
	}
	return m
}

func Test_Lookup(t *testing.T) {
	m := load(t)

	tests := []struct {
		family registry.Family
		code   uint64
		want   string
	}{
		{registry.ActionType, ofp13.OFPAT_GROUP, "GroupAction"},
		{registry.ActionType, ofp13.OFPAT_OUTPUT, "SendOutPort"},
		{registry.ActionType, ofp13.OFPAT_DEC_NW_TTL, "DecIpTtl"},
		{registry.ActionType, ofp13.OFPAT_SET_FIELD, "SetField"},
		{registry.ActionType, ofp13.OFPAT_EXPERIMENTER, "Experimenter"},
		{registry.MatchFieldType, ofp13.OFPXMT_OFB_ETH_SRC, "EthSrc"},
		{registry.MatchFieldType, ofp13.OFPXMT_OFB_TCP_DST, "TcpDstPort"},
		{registry.MatchFieldType, ofp13.OFPXMT_OFB_IPV6_FLABEL, "Ipv6FlowLabel"},
		{registry.InstructionType, ofp13.OFPIT_APPLY_ACTIONS, "ApplyAction"},
		{registry.InstructionType, ofp13.OFPIT_GOTO_TABLE, "GotoTable"},
		{registry.MessageType, ofp13.OFPT_FLOW_MOD, "FlowMod"},
		{registry.MessageType, ofp13.OFPT_PACKET_IN, "PacketIn"},
		{registry.MessageType, ofp13.OFPT_MULTIPART_REQUEST, "MultipartRequest"},
		{registry.MultipartRequestType, ofp13.OFPMP_PORT_STATS, "PortMultipartRequest"},
		{registry.MultipartReplyType, ofp13.OFPMP_PORT_DESC, "PortDescMultipartReply"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			s, ok := m.Lookup(test.family, test.code)
			if !ok {
				t.Fatalf("%s %d is not registered", test.family, test.code)
			}
			if s.Name() != test.want {
				t.Errorf("expected %s, got %s", test.want, s.Name())
			}
			key, ok := m.CodeOf(s)
			if !ok || key.Code != test.code {
				t.Errorf("expected reverse lookup to give %d, got %v", test.code, key)
			}
		})
	}

	if s, ok := m.Lookup(registry.ActionType, 0x1234); ok {
		t.Errorf("expected unregistered outcome, got %s", s.Name())
	}
}

func Test_EveryCodeRegistered(t *testing.T) {
	m := load(t)

	for _, family := range []registry.Family{registry.ActionType, registry.InstructionType, registry.MatchFieldType} {
		for _, name := range catalog.Names(family.Prefix + "_") {
			code, _ := catalog.OFP13().Lookup(name)
			if _, ok := m.Lookup(family, code); !ok {
				t.Errorf("%s (%s %d) has no variant", name, family, code)
			}
		}
	}
}

func Test_RoutineNames(t *testing.T) {
	m := load(t)

	var bound []string
	for _, s := range m.Schemas() {
		v := m.variants[s]
		if v.encode == nil {
			continue
		}
		err := v.encode(UnimplementedEncoder{}, nil)
		var rerr *RoutineError
		if !errors.As(err, &rerr) || !errors.Is(err, ErrNotImplemented) {
			t.Fatalf("%s: unexpected error %v", s.Name(), err)
		}
		if rerr.Routine != RoutineName(s) {
			t.Errorf("%s is bound to %s, expected %s", s.Name(), rerr.Routine, RoutineName(s))
		}
		bound = append(bound, rerr.Routine)
	}

	var methods []string
	iface := reflect.TypeOf((*Encoder)(nil)).Elem()
	for i := 0; i < iface.NumMethod(); i++ {
		methods = append(methods, iface.Method(i).Name)
	}
	sort.Strings(bound)
	if diff := cmp.Diff(methods, bound); diff != "" {
		t.Errorf("encoder routines and declared variants differ (-encoder +variants):\n%s", diff)
	}
}

func Test_EncodeSetField(t *testing.T) {
	m := load(t)

	decTTL, err := m.Construct(schema.RoleAction, "DecIpTtl", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ethSrc, err := m.Construct(schema.RoleAction, "EthSrc", schema.Fields{"mac_address": "11:22:33:44:55:66"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	setField, err := m.Construct(schema.RoleAction, "SetField", schema.Fields{
		"action_set": []*schema.Object{decTTL, ethSrc},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &recorder{}
	if err := m.Encode(setField, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"PackDecIpTtl", "PackEthSrc"}, rec.calls); diff != "" {
		t.Errorf("unexpected encoder calls (-want +got):\n%s", diff)
	}
	if got := rec.params[1].MAC("mac_address").String(); got != "11:22:33:44:55:66" {
		t.Errorf("unexpected mac_address %s", got)
	}
}

func Test_EncodeErrorPropagates(t *testing.T) {
	m := load(t)
	boom := errors.New("boom")

	setQueue, err := m.Construct(schema.RoleAction, "SetQueue", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := &recorder{err: boom}
	if err := m.Encode(setQueue, rec); err != boom {
		t.Errorf("expected encoder error unchanged, got %v", err)
	}
	if len(rec.calls) != 1 || rec.params[0].Uint32("queue_id") != 7 {
		t.Errorf("unexpected calls %v %v", rec.calls, rec.params)
	}

	ethSrc, _ := m.Construct(schema.RoleAction, "EthSrc", schema.Fields{"eth_src": "11:22:33:44:55:66"})
	decTTL, _ := m.Construct(schema.RoleAction, "DecIpTtl", nil)
	setField, err := m.Construct(schema.RoleAction, "SetField", schema.Fields{
		"action_set": []*schema.Object{ethSrc, decTTL},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec = &recorder{err: boom}
	if err := m.Encode(setField, rec); err != boom {
		t.Errorf("expected encoder error unchanged, got %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("expected dispatch to stop at the first failure, got %v", rec.calls)
	}
}

func Test_EncodeMessage(t *testing.T) {
	m := load(t)

	flowMod, err := m.Construct(schema.RoleMessage, "FlowMod", schema.Fields{
		"table_id": 2,
		"match":    schema.Fields{"in_port": 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &recorder{}
	if err := m.EncodeMessage(flowMod, 0xabc, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := rec.params[0]
	if p.Uint64("datapath_id") != 0xabc {
		t.Errorf("expected datapath_id to be merged, got %v", p["datapath_id"])
	}
	if !p.Has("transaction_id") {
		t.Error("expected a default transaction id")
	}
	if p.Uint32("buffer_id") != ofp13.OFP_NO_BUFFER || p.Uint16("priority") != ofp13.OFP_DEFAULT_PRIORITY {
		t.Errorf("unexpected defaults: %v", p)
	}
	if flowMod.Has("datapath_id") {
		t.Error("encoding must not modify the object")
	}

	action, _ := m.Construct(schema.RoleAction, "DecIpTtl", nil)
	if err := m.EncodeMessage(action, 1, rec); err == nil {
		t.Error("expected actions to be rejected as messages")
	}
}

func Test_EncodeDecodeOnly(t *testing.T) {
	m := load(t)

	reply, err := m.Construct(schema.RoleMessage, "BarrierReply", schema.Fields{"datapath_id": 1, "xid": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Encode(reply, &recorder{}); !errors.Is(err, ErrNoEncodeRoutine) {
		t.Errorf("expected ErrNoEncodeRoutine, got %v", err)
	}
	if m.Encodable(reply.Schema()) {
		t.Error("expected BarrierReply to be decode-only")
	}
}

func Test_Construct(t *testing.T) {
	m := load(t)

	tests := []struct {
		name    string
		role    schema.Role
		variant string
		input   interface{}
		check   func(error) bool
	}{
		{
			name:    "vlan ether type",
			role:    schema.RoleAction,
			variant: "PushVlan",
			input:   EtherTypeQinQ,
			check:   func(err error) bool { return err == nil },
		},
		{
			name:    "mpls ether type on push vlan",
			role:    schema.RoleAction,
			variant: "PushVlan",
			input:   EtherTypeMPLS,
			check:   isInvalid,
		},
		{
			name:    "pop mpls inherits its ether type",
			role:    schema.RoleAction,
			variant: "PopMpls",
			input:   EtherTypeMPLSMcst,
			check:   func(err error) bool { return err == nil },
		},
		{
			name:    "vlan priority above 7",
			role:    schema.RoleAction,
			variant: "VlanPriority",
			input:   schema.Fields{"vlan_pcp": 8},
			check:   isOutOfRange,
		},
		{
			name:    "ipv6 address for ipv4 field",
			role:    schema.RoleAction,
			variant: "Ipv4SrcAddr",
			input:   schema.Fields{"ipv4_src": "fe80::1"},
			check:   isInvalid,
		},
		{
			name:    "transport port through alias",
			role:    schema.RoleAction,
			variant: "UdpDstPort",
			input:   schema.Fields{"udp_dst": 53},
			check:   func(err error) bool { return err == nil },
		},
		{
			name:    "transport port missing",
			role:    schema.RoleAction,
			variant: "UdpDstPort",
			input:   nil,
			check:   isMissing,
		},
		{
			name:    "config flags",
			role:    schema.RoleMessage,
			variant: "SetConfig",
			input:   schema.Fields{"flags": 5, "miss_send_len": 128},
			check:   isInvalid,
		},
		{
			name:    "flow mod with an action as instruction",
			role:    schema.RoleMessage,
			variant: "FlowMod",
			input:   schema.Fields{"instructions": []interface{}{mustConstruct(t, m, schema.RoleAction, "PopVlan", nil)}},
			check:   isMismatch,
		},
		{
			name:    "group mod buckets from maps",
			role:    schema.RoleMessage,
			variant: "GroupMod",
			input: schema.Fields{"group_id": 1, "buckets": []interface{}{
				schema.Fields{"weight": 1, "actions": []*schema.Object{mustConstruct(t, m, schema.RoleAction, "SendOutPort", schema.Fields{"port": 3})}},
			}},
			check: func(err error) bool { return err == nil },
		},
		{
			name:    "port description falls back to port required fields",
			role:    schema.RoleNone,
			variant: "PortDescMultipartReply",
			input:   schema.Fields{"port_no": 1},
			check:   isMissing,
		},
		{
			name:    "abstract variant",
			role:    schema.RoleAction,
			variant: "FlexibleAction",
			input:   nil,
			check:   func(err error) bool { return errors.Is(err, ErrUnknownVariant) },
		},
		{
			name:    "unknown variant",
			role:    schema.RoleInstruction,
			variant: "GotoGroup",
			input:   nil,
			check:   func(err error) bool { return errors.Is(err, ErrUnknownVariant) },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := m.Construct(test.role, test.variant, test.input)
			if !test.check(err) {
				t.Errorf("unexpected result: %v", err)
			}
		})
	}
}

func Test_Hello(t *testing.T) {
	m := load(t)

	a, err := m.Construct(schema.RoleMessage, "Hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.Construct(schema.RoleMessage, "Hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	av, _ := a.Get("xid")
	bv, _ := b.Get("xid")
	if av.Uint() == bv.Uint() {
		t.Errorf("expected distinct transaction ids, got %d twice", av.Uint())
	}
	if diff := cmp.Diff([]byte{OFPVersion}, a.Params().Bytes("version")); diff != "" {
		t.Errorf("unexpected version (-want +got):\n%s", diff)
	}

	if _, err := m.Construct(schema.RoleMessage, "Hello", schema.Fields{"version": nil}); !isMissing(err) {
		t.Errorf("nil version: expected MissingRequiredField, got %v", err)
	}

	for _, version := range [][]byte{{0x01}, {0x04, 0x05}} {
		if _, err := m.Construct(schema.RoleMessage, "Hello", schema.Fields{"version": version}); !isInvalid(err) {
			t.Errorf("version %v: expected InvalidFieldValue, got %v", version, err)
		}
	}
}

func Test_DuplicateRegistrationAbortsLoad(t *testing.T) {
	m := NewModel(catalog.OFP13())
	if _, err := m.Declare(schema.Declare("Output", schema.RoleAction), nil, actionKey(ofp13.OFPAT_OUTPUT)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := declareAll(m)
	var dup *registry.DuplicateRegistrationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError, got %v", err)
	}
	if dup.Existing != "Output" || dup.Conflicting != "SendOutPort" {
		t.Errorf("unexpected conflict %+v", dup)
	}
}

func Test_DeclareAfterFreeze(t *testing.T) {
	m := load(t)
	_, err := m.Declare(schema.Declare("Late", schema.RoleAction), nil)
	if !errors.Is(err, registry.ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	if _, err := m.Declare(schema.Declare("Late", schema.RoleAction), nil); err == nil {
		t.Error("expected second late declaration to fail as well")
	}
}

func Test_DeclareTwice(t *testing.T) {
	m := NewModel(nil)
	if _, err := m.Declare(schema.Declare("Twice", schema.RoleAction), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Declare(schema.Declare("Twice", schema.RoleAction), nil); !errors.Is(err, schema.ErrDeclaration) {
		t.Errorf("expected declaration error, got %v", err)
	}
	if _, err := m.Declare(schema.Declare("Twice", schema.RoleInstruction), nil); err != nil {
		t.Errorf("same name in another role should be accepted, got %v", err)
	}
	if _, err := m.DeclareComposite(schema.Declare("Bad", schema.RoleAction).Uint8("x"), "x"); !errors.Is(err, schema.ErrDeclaration) {
		t.Errorf("expected composite over a scalar to fail, got %v", err)
	}
}

func mustConstruct(t *testing.T, m *Model, role schema.Role, name string, input interface{}) *schema.Object {
	t.Helper()
	o, err := m.Construct(role, name, input)
	if err != nil {
		t.Fatalf("constructing %s: %v", name, err)
	}
	return o
}

func isInvalid(err error) bool {
	var e *schema.InvalidFieldValueError
	return errors.As(err, &e)
}

func isOutOfRange(err error) bool {
	var e *schema.OutOfRangeError
	return errors.As(err, &e)
}

func isMissing(err error) bool {
	var e *schema.MissingRequiredFieldError
	return errors.As(err, &e)
}

func isMismatch(err error) bool {
	var e *schema.TypeMismatchError
	return errors.As(err, &e)
}

func Test_ConcurrentUse(t *testing.T) {
	m := load(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(queue int) {
			defer wg.Done()
			obj, err := m.Construct(schema.RoleAction, "SetQueue", queue)
			if err != nil {
				errs <- err
				return
			}
			rec := &recorder{}
			if err := m.Encode(obj, rec); err != nil {
				errs <- err
				return
			}
			if got := rec.params[0].Uint32("queue_id"); got != uint32(queue) {
				errs <- errors.New("queue id crossed between goroutines")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
