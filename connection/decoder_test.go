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

package connection

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/google/go-cmp/cmp"
	"github.com/kube-ovs/ofschema/protocol"
	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"
)

const testDatapath = 0xabc

func encoded(t *testing.T, m *protocol.Model, name string, input interface{}) []byte {
	t.Helper()
	enc := NewEncoder(m)
	if err := enc.Encode(construct(t, m, schema.RoleMessage, name, input)); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return enc.Bytes()
}

func Test_Decode(t *testing.T) {
	m := load(t)

	features := rawHeader(ofp13.OFPT_FEATURES_REPLY, 32, 1)
	features = append(features, make([]byte, 24)...)
	binary.BigEndian.PutUint64(features[8:], 0x1122334455667788)
	binary.BigEndian.PutUint32(features[16:], 256)
	features[20] = 254
	binary.BigEndian.PutUint32(features[24:], 0x4f)

	getConfig := append(rawHeader(ofp13.OFPT_GET_CONFIG_REPLY, 12, 2), 0, 0, 0, 128)

	role := encoded(t, m, "RoleRequest", schema.Fields{"role": ofp13.OFPCT_ROLE_MASTER, "generation_id": 3, "xid": 8})
	role[1] = ofp13.OFPT_ROLE_REPLY

	tests := []struct {
		name   string
		buf    []byte
		want   string
		fields schema.Fields
	}{
		{
			name:   "barrier reply",
			buf:    rawHeader(ofp13.OFPT_BARRIER_REPLY, 8, 11),
			want:   "BarrierReply",
			fields: schema.Fields{"transaction_id": uint64(11), "datapath_id": uint64(testDatapath)},
		},
		{
			name:   "error",
			buf:    append(rawHeader(ofp13.OFPT_ERROR, 14, 7), 0, 1, 0, 2, 0xaa, 0xbb),
			want:   "Error",
			fields: schema.Fields{"transaction_id": uint64(7), "type": uint64(1), "code": uint64(2), "data": []byte{0xaa, 0xbb}},
		},
		{
			name: "features reply",
			buf:  features,
			want: "FeaturesReply",
			fields: schema.Fields{
				"datapath_id":  uint64(0x1122334455667788),
				"n_buffers":    uint64(256),
				"n_tables":     uint64(254),
				"capabilities": uint64(0x4f),
			},
		},
		{
			name:   "get config reply",
			buf:    getConfig,
			want:   "GetConfigReply",
			fields: schema.Fields{"transaction_id": uint64(2), "flags": uint64(0), "miss_send_len": uint64(128)},
		},
		{
			name:   "role reply",
			buf:    role,
			want:   "RoleReply",
			fields: schema.Fields{"transaction_id": uint64(8), "role": uint64(ofp13.OFPCT_ROLE_MASTER), "generation_id": uint64(3)},
		},
		{
			name:   "hello",
			buf:    encoded(t, m, "Hello", schema.Fields{"xid": 42}),
			want:   "Hello",
			fields: schema.Fields{"transaction_id": uint64(42), "version": []byte{protocol.OFPVersion}},
		},
		{
			name:   "echo request",
			buf:    encoded(t, m, "EchoRequest", schema.Fields{"xid": 5, "body": []byte("ping")}),
			want:   "EchoRequest",
			fields: schema.Fields{"transaction_id": uint64(5), "body": []byte("ping")},
		},
	}

	d := NewDecoder(m, testDatapath)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decoded, err := d.Decode(test.buf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !decoded.Registered || decoded.Object.Name() != test.want {
				t.Fatalf("expected a registered %s, got %+v", test.want, decoded)
			}
			if decoded.Family != registry.MessageType || decoded.Code != uint64(test.buf[1]) {
				t.Errorf("unexpected family %s and code %d", decoded.Family, decoded.Code)
			}

			got := schema.Fields{}
			for name := range test.fields {
				v, ok := decoded.Object.Get(name)
				if !ok {
					t.Errorf("field %s not set", name)
					continue
				}
				if v.Kind() == schema.Bytes {
					got[name] = v.Bytes()
				} else {
					got[name] = v.Uint()
				}
			}
			if diff := cmp.Diff(test.fields, got); diff != "" {
				t.Errorf("unexpected fields (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_DecodeUnregistered(t *testing.T) {
	d := NewDecoder(load(t), testDatapath)

	decoded, err := d.Decode(rawHeader(0xee, 8, 1))
	if err != nil {
		t.Fatalf("an unregistered message type is not an error, got %v", err)
	}
	if decoded.Registered || decoded.Object != nil || decoded.Code != 0xee {
		t.Errorf("expected an unregistered outcome, got %+v", decoded)
	}

	if _, err := d.Decode([]byte{4, 0, 0}); !errors.Is(err, ErrShortMessage) {
		t.Errorf("expected ErrShortMessage, got %v", err)
	}
}

func Test_DecodeAction(t *testing.T) {
	d := NewDecoder(load(t), testDatapath)

	ethSrc, err := ofp13.NewOxmEthSrc("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		action ofp13.OfpAction
		want   string
		check  func(t *testing.T, obj *schema.Object)
	}{
		{
			name:   "output",
			action: ofp13.NewOfpActionOutput(3, 128),
			want:   "SendOutPort",
			check: func(t *testing.T, obj *schema.Object) {
				p := obj.Params()
				if p.Uint32("port_number") != 3 || p.Uint16("max_len") != 128 {
					t.Errorf("unexpected output action %s", obj)
				}
			},
		},
		{
			name:   "pop vlan",
			action: ofp13.NewOfpActionPopVlan(0),
			want:   "PopVlan",
		},
		{
			name:   "dec ttl",
			action: ofp13.NewOfpActionDecNwTtl(),
			want:   "DecIpTtl",
		},
		{
			name:   "set field",
			action: ofp13.NewOfpActionSetField(ethSrc),
			want:   "SetField",
			check: func(t *testing.T, obj *schema.Object) {
				set := obj.Params().List("action_set")
				if len(set) != 1 || set[0].Name() != "EthSrc" {
					t.Fatalf("unexpected action set %v", set)
				}
				if mac := set[0].Params().MAC("mac_address"); mac.String() != "aa:bb:cc:dd:ee:ff" {
					t.Errorf("unexpected address %s", mac)
				}
			},
		},
		{
			name:   "experimenter",
			action: ofp13.NewOfpActionExperimenter(0x2320),
			want:   "Experimenter",
			check: func(t *testing.T, obj *schema.Object) {
				if obj.Params().Uint32("experimenter") != 0x2320 {
					t.Errorf("unexpected experimenter %s", obj)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			obj, err := d.DecodeAction(test.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if obj.Name() != test.want {
				t.Fatalf("expected %s, got %s", test.want, obj.Name())
			}
			if test.check != nil {
				test.check(t, obj)
			}
		})
	}
}

func Test_DecodeInstruction(t *testing.T) {
	d := NewDecoder(load(t), testDatapath)

	apply := ofp13.NewOfpInstructionActions(ofp13.OFPIT_APPLY_ACTIONS)
	apply.Append(ofp13.NewOfpActionOutput(ofp13.OFPP_CONTROLLER, 0xffff))
	apply.Append(ofp13.NewOfpActionGroup(4))

	obj, err := d.DecodeInstruction(apply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Name() != "ApplyAction" {
		t.Fatalf("expected ApplyAction, got %s", obj.Name())
	}
	var names []string
	for _, a := range obj.Params().List("actions") {
		names = append(names, a.Name())
	}
	if diff := cmp.Diff([]string{"SendOutPort", "GroupAction"}, names); diff != "" {
		t.Errorf("unexpected actions (-want +got):\n%s", diff)
	}

	obj, err = d.DecodeInstruction(ofp13.NewOfpInstructionGotoTable(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Name() != "GotoTable" || obj.Params().Uint8("table_id") != 3 {
		t.Errorf("unexpected instruction %s", obj)
	}
}

func Test_DecodeMultipartReply(t *testing.T) {
	d := NewDecoder(load(t), testDatapath)

	name := make([]byte, 16)
	copy(name, "eth0")
	port := &ofp13.OfpPort{
		PortNo:    1,
		HwAddr:    srcMAC,
		Name:      name,
		CurrSpeed: 10000000,
		MaxSpeed:  10000000,
	}
	group := &ofp13.OfpGroupDescStats{
		Length:  40,
		Type:    ofp13.OFPGT_ALL,
		GroupId: 7,
		Buckets: []*ofp13.OfpBucket{{
			WatchPort:  ofp13.OFPP_ANY,
			WatchGroup: ofp13.OFPG_ANY,
			Actions:    []ofp13.OfpAction{ofp13.NewOfpActionOutput(2, 0xffff)},
		}},
	}

	tests := []struct {
		name  string
		typ   uint16
		body  ofp13.OfpMultipartBody
		want  string
		check func(t *testing.T, part *schema.Object)
	}{
		{
			name: "port desc",
			typ:  ofp13.OFPMP_PORT_DESC,
			body: port,
			want: "PortDescMultipartReply",
			check: func(t *testing.T, part *schema.Object) {
				p := part.Params()
				if p.Text("name") != "eth0" || p.Uint32("port_no") != 1 || p.MAC("hw_addr").String() != srcMAC.String() {
					t.Errorf("unexpected port %s", part)
				}
			},
		},
		{
			name: "group desc",
			typ:  ofp13.OFPMP_GROUP_DESC,
			body: group,
			want: "GroupDescMultipartReply",
			check: func(t *testing.T, part *schema.Object) {
				buckets := part.Params().List("buckets")
				if len(buckets) != 1 {
					t.Fatalf("expected 1 bucket, got %d", len(buckets))
				}
				actions := buckets[0].Params().List("actions")
				if len(actions) != 1 || actions[0].Name() != "SendOutPort" {
					t.Errorf("unexpected bucket actions %v", actions)
				}
				if part.Params().Uint32("group_id") != 7 {
					t.Errorf("unexpected group %s", part)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reply := &ofp13.OfpMultipartReply{
				Header: ofp13.OfpHeader{Version: protocol.OFPVersion, Type: ofp13.OFPT_MULTIPART_REPLY, Xid: 4},
				Type:   test.typ,
				Body:   []ofp13.OfpMultipartBody{test.body},
			}
			decoded, err := d.DecodeMessage(reply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !decoded.Registered || decoded.Object.Name() != "MultipartReply" {
				t.Fatalf("expected a MultipartReply, got %+v", decoded)
			}
			parts := decoded.Object.Params().List("parts")
			if len(parts) != 1 || parts[0].Name() != test.want {
				t.Fatalf("expected one %s part, got %v", test.want, parts)
			}
			test.check(t, parts[0])
		})
	}
}

func Test_DecodePacketIn(t *testing.T) {
	d := NewDecoder(load(t), testDatapath)

	match := ofp13.NewOfpMatch()
	match.Append(ofp13.NewOxmInPort(5))
	packetIn := &ofp13.OfpPacketIn{
		Header:   ofp13.OfpHeader{Version: protocol.OFPVersion, Type: ofp13.OFPT_PACKET_IN, Xid: 12},
		BufferId: ofp13.OFP_NO_BUFFER,
		Reason:   ofp13.OFPR_ACTION,
		Match:    match,
		Data:     tcpFrame(t),
	}

	decoded, err := d.DecodeMessage(packetIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Registered || decoded.Object.Name() != "PacketIn" {
		t.Fatalf("expected a PacketIn, got %+v", decoded)
	}

	p := decoded.Object.Params()
	if p.Uint64("datapath_id") != testDatapath || p.Uint8("reason") != ofp13.OFPR_ACTION {
		t.Errorf("unexpected packet-in header fields %s", decoded.Object)
	}
	if in := p.Object("match").Params().Uint32("in_port"); in != 5 {
		t.Errorf("expected in_port 5, got %d", in)
	}
	info := p.Object("packet_info")
	if info == nil {
		t.Fatal("expected packet info to be parsed")
	}
	if !info.Params().Bool("tcp") || info.Params().Uint16("tcp_dst") != 80 {
		t.Errorf("unexpected packet info %s", info)
	}
}
