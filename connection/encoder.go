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
	"errors"
	"fmt"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/protocol"
	"github.com/kube-ovs/ofschema/schema"
)

// ErrUnsupportedField is returned for field values gofc has no room for on
// the wire, such as experimenter payloads.
var ErrUnsupportedField = errors.New("field cannot be encoded")

// Encoder packs protocol objects into gofc OpenFlow 1.3 messages. Actions and
// instructions encoded on their own, outside of any message, are collected
// separately. An Encoder is not safe for concurrent use.
type Encoder struct {
	model *protocol.Model

	messages     []ofp13.OFMessage
	actions      []ofp13.OfpAction
	instructions []ofp13.OfpInstruction
}

var _ protocol.Encoder = &Encoder{}

func NewEncoder(m *protocol.Model) *Encoder {
	return &Encoder{model: m}
}

// Encode dispatches obj through the model onto e.
func (e *Encoder) Encode(obj *schema.Object) error {
	return e.model.Encode(obj, e)
}

func (e *Encoder) Messages() []ofp13.OFMessage          { return e.messages }
func (e *Encoder) Actions() []ofp13.OfpAction           { return e.actions }
func (e *Encoder) Instructions() []ofp13.OfpInstruction { return e.instructions }

// Bytes serializes every collected message in order.
func (e *Encoder) Bytes() []byte {
	var out []byte
	for _, msg := range e.messages {
		out = append(out, SerializeMessage(msg)...)
	}
	return out
}

func (e *Encoder) Reset() {
	e.messages = nil
	e.actions = nil
	e.instructions = nil
}

// packActions encodes objs into a fresh action list, leaving the collected
// actions untouched.
func (e *Encoder) packActions(objs []*schema.Object) ([]ofp13.OfpAction, error) {
	saved := e.actions
	e.actions = make([]ofp13.OfpAction, 0, len(objs))

	var err error
	for _, obj := range objs {
		if err = e.model.Encode(obj, e); err != nil {
			break
		}
	}

	actions := e.actions
	e.actions = saved
	return actions, err
}

func (e *Encoder) packInstructions(objs []*schema.Object) ([]ofp13.OfpInstruction, error) {
	saved := e.instructions
	e.instructions = make([]ofp13.OfpInstruction, 0, len(objs))

	var err error
	for _, obj := range objs {
		if err = e.model.Encode(obj, e); err != nil {
			break
		}
	}

	instructions := e.instructions
	e.instructions = saved
	return instructions, err
}

func (e *Encoder) action(a ofp13.OfpAction) error {
	e.actions = append(e.actions, a)
	return nil
}

func (e *Encoder) setField(code uint32, v schema.Value) error {
	oxm, err := packOxm(code, v, schema.Value{})
	if err != nil {
		return err
	}
	return e.action(ofp13.NewOfpActionSetField(oxm))
}

func (e *Encoder) instruction(i ofp13.OfpInstruction) error {
	e.instructions = append(e.instructions, i)
	return nil
}

func (e *Encoder) message(msg ofp13.OFMessage) error {
	e.messages = append(e.messages, msg)
	return nil
}

func noPayload(p schema.Params, name string) error {
	if len(p.Bytes(name)) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedField, name)
	}
	return nil
}

func (e *Encoder) PackSendOutPort(p schema.Params) error {
	return e.action(ofp13.NewOfpActionOutput(p.Uint32("port_number"), p.Uint16("max_len")))
}

func (e *Encoder) PackCopyTtlOut(p schema.Params) error { return e.action(ofp13.NewOfpActionCopyTtlOut()) }
func (e *Encoder) PackCopyTtlIn(p schema.Params) error  { return e.action(ofp13.NewOfpActionCopyTtlIn()) }
func (e *Encoder) PackDecMplsTtl(p schema.Params) error { return e.action(ofp13.NewOfpActionDecMplsTtl()) }
func (e *Encoder) PackDecIpTtl(p schema.Params) error   { return e.action(ofp13.NewOfpActionDecNwTtl()) }
func (e *Encoder) PackPopVlan(p schema.Params) error    { return e.action(ofp13.NewOfpActionPopVlan(0)) }
func (e *Encoder) PackPopPbb(p schema.Params) error     { return e.action(ofp13.NewOfpActionPopPbb(0)) }

func (e *Encoder) PackSetMplsTtl(p schema.Params) error {
	return e.action(ofp13.NewOfpActionSetMplsTtl(p.Uint8("mpls_ttl")))
}

func (e *Encoder) PackPushVlan(p schema.Params) error {
	return e.action(ofp13.NewOfpActionPush(ofp13.OFPAT_PUSH_VLAN, p.Uint16("ether_type")))
}

func (e *Encoder) PackPushMpls(p schema.Params) error {
	return e.action(ofp13.NewOfpActionPush(ofp13.OFPAT_PUSH_MPLS, p.Uint16("ether_type")))
}

func (e *Encoder) PackPushPbb(p schema.Params) error {
	return e.action(ofp13.NewOfpActionPush(ofp13.OFPAT_PUSH_PBB, p.Uint16("ether_type")))
}

func (e *Encoder) PackPopMpls(p schema.Params) error {
	return e.action(ofp13.NewOfpActionPopMpls(p.Uint16("ether_type")))
}

func (e *Encoder) PackSetQueue(p schema.Params) error {
	return e.action(ofp13.NewOfpActionSetQueue(p.Uint32("queue_id")))
}

func (e *Encoder) PackGroupAction(p schema.Params) error {
	return e.action(ofp13.NewOfpActionGroup(p.Uint32("group_id")))
}

func (e *Encoder) PackSetIpTtl(p schema.Params) error {
	return e.action(ofp13.NewOfpActionSetNwTtl(p.Uint8("ip_ttl")))
}

func (e *Encoder) PackExperimenter(p schema.Params) error {
	if err := noPayload(p, "body"); err != nil {
		return err
	}
	return e.action(ofp13.NewOfpActionExperimenter(p.Uint32("experimenter")))
}

// Flexible actions become set-field actions carrying one OXM.

func (e *Encoder) PackInPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IN_PORT, p["in_port"])
}

func (e *Encoder) PackInPhyPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IN_PHY_PORT, p["in_phy_port"])
}

func (e *Encoder) PackMetadata(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_METADATA, p["metadata"])
}

func (e *Encoder) PackEthDst(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ETH_DST, p["mac_address"])
}

func (e *Encoder) PackEthSrc(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ETH_SRC, p["mac_address"])
}

func (e *Encoder) PackEtherType(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ETH_TYPE, p["ether_type"])
}

func (e *Encoder) PackVlanVid(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_VLAN_VID, p["vlan_vid"])
}

func (e *Encoder) PackVlanPriority(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_VLAN_PCP, p["vlan_pcp"])
}

func (e *Encoder) PackIpDscp(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IP_DSCP, p["ip_dscp"])
}

func (e *Encoder) PackIpEcn(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IP_ECN, p["ip_ecn"])
}

func (e *Encoder) PackIpProto(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IP_PROTO, p["ip_proto"])
}

func (e *Encoder) PackIpv4SrcAddr(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV4_SRC, p["ip_addr"])
}

func (e *Encoder) PackIpv4DstAddr(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV4_DST, p["ip_addr"])
}

func (e *Encoder) PackTcpSrcPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_TCP_SRC, p["transport_port"])
}

func (e *Encoder) PackTcpDstPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_TCP_DST, p["transport_port"])
}

func (e *Encoder) PackUdpSrcPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_UDP_SRC, p["transport_port"])
}

func (e *Encoder) PackUdpDstPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_UDP_DST, p["transport_port"])
}

func (e *Encoder) PackSctpSrcPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_SCTP_SRC, p["transport_port"])
}

func (e *Encoder) PackSctpDstPort(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_SCTP_DST, p["transport_port"])
}

func (e *Encoder) PackIcmpv4Type(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ICMPV4_TYPE, p["icmpv4_type"])
}

func (e *Encoder) PackIcmpv4Code(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ICMPV4_CODE, p["icmpv4_code"])
}

func (e *Encoder) PackArpOp(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ARP_OP, p["arp_op"])
}

func (e *Encoder) PackArpSpa(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ARP_SPA, p["ip_addr"])
}

func (e *Encoder) PackArpTpa(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ARP_TPA, p["ip_addr"])
}

func (e *Encoder) PackArpSha(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ARP_SHA, p["mac_address"])
}

func (e *Encoder) PackArpTha(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ARP_THA, p["mac_address"])
}

func (e *Encoder) PackIpv6SrcAddr(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_SRC, p["ip_addr"])
}

func (e *Encoder) PackIpv6DstAddr(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_DST, p["ip_addr"])
}

func (e *Encoder) PackIpv6FlowLabel(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_FLABEL, p["ipv6_flow_label"])
}

func (e *Encoder) PackIcmpv6Type(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ICMPV6_TYPE, p["icmpv6_type"])
}

func (e *Encoder) PackIcmpv6Code(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_ICMPV6_CODE, p["icmpv6_code"])
}

func (e *Encoder) PackIpv6NdTarget(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_ND_TARGET, p["ip_addr"])
}

func (e *Encoder) PackIpv6NdSll(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_ND_SLL, p["mac_address"])
}

func (e *Encoder) PackIpv6NdTll(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_ND_TLL, p["mac_address"])
}

func (e *Encoder) PackMplsLabel(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_MPLS_LABEL, p["mpls_label"])
}

func (e *Encoder) PackMplsTc(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_MPLS_TC, p["mpls_tc"])
}

func (e *Encoder) PackMplsBos(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_MPLS_BOS, p["mpls_bos"])
}

func (e *Encoder) PackPbbIsid(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_PBB_ISID, p["pbb_isid"])
}

func (e *Encoder) PackTunnelId(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_TUNNEL_ID, p["tunnel_id"])
}

func (e *Encoder) PackIpv6Exthdr(p schema.Params) error {
	return e.setField(ofp13.OFPXMT_OFB_IPV6_EXTHDR, p["ipv6_exthdr"])
}

func (e *Encoder) PackGotoTableInstruction(p schema.Params) error {
	return e.instruction(ofp13.NewOfpInstructionGotoTable(p.Uint8("table_id")))
}

func (e *Encoder) PackWriteMetadataInstruction(p schema.Params) error {
	return e.instruction(ofp13.NewOfpInstructionWriteMetadata(p.Uint64("metadata"), p.Uint64("metadata_mask")))
}

func (e *Encoder) actionsInstruction(t uint16, p schema.Params) error {
	i := ofp13.NewOfpInstructionActions(t)
	if t != ofp13.OFPIT_CLEAR_ACTIONS {
		actions, err := e.packActions(p.List("actions"))
		if err != nil {
			return err
		}
		for _, a := range actions {
			i.Append(a)
		}
	}
	return e.instruction(i)
}

func (e *Encoder) PackWriteActionInstruction(p schema.Params) error {
	return e.actionsInstruction(ofp13.OFPIT_WRITE_ACTIONS, p)
}

func (e *Encoder) PackApplyActionInstruction(p schema.Params) error {
	return e.actionsInstruction(ofp13.OFPIT_APPLY_ACTIONS, p)
}

func (e *Encoder) PackClearActionInstruction(p schema.Params) error {
	return e.actionsInstruction(ofp13.OFPIT_CLEAR_ACTIONS, p)
}

func (e *Encoder) PackMeterInstruction(p schema.Params) error {
	return e.instruction(ofp13.NewOfpInstructionMeter(p.Uint32("meter_id")))
}

func (e *Encoder) PackExperimenterInstruction(p schema.Params) error {
	if err := noPayload(p, "user_data"); err != nil {
		return err
	}
	return e.instruction(ofp13.NewOfpInstructionExperimenter(p.Uint32("experimenter")))
}

func xid(p schema.Params) uint32 {
	return p.Uint32("transaction_id")
}

func (e *Encoder) header(t uint8, p schema.Params) error {
	h := ofp13.NewOfpHeader(t)
	h.Xid = xid(p)
	return e.message(&h)
}

func (e *Encoder) PackHelloMsg(p schema.Params) error {
	m := ofp13.NewOfpHello()
	if version := p.Bytes("version"); len(version) > 0 {
		m.Header.Version = version[0]
	} else {
		m.Header.Version = protocol.OFPVersion
	}
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackEchoRequestMsg(p schema.Params) error {
	m := newEcho(ofp13.OFPT_ECHO_REQUEST, p.Bytes("body"))
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackEchoReplyMsg(p schema.Params) error {
	m := newEcho(ofp13.OFPT_ECHO_REPLY, p.Bytes("body"))
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackFeaturesRequestMsg(p schema.Params) error {
	return e.header(ofp13.OFPT_FEATURES_REQUEST, p)
}

func (e *Encoder) PackGetConfigRequestMsg(p schema.Params) error {
	return e.header(ofp13.OFPT_GET_CONFIG_REQUEST, p)
}

func (e *Encoder) PackBarrierRequestMsg(p schema.Params) error {
	return e.header(ofp13.OFPT_BARRIER_REQUEST, p)
}

func (e *Encoder) PackSetConfigMsg(p schema.Params) error {
	m := ofp13.NewOfpSetConfig(p.Uint16("flags"), p.Uint16("miss_send_len"))
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackFlowModMsg(p schema.Params) error {
	match, err := packMatch(p.Object("match"))
	if err != nil {
		return err
	}
	instructions, err := e.packInstructions(p.List("instructions"))
	if err != nil {
		return err
	}

	m := &ofp13.OfpFlowMod{
		Header:       ofp13.NewOfpHeader(ofp13.OFPT_FLOW_MOD),
		Cookie:       p.Uint64("cookie"),
		CookieMask:   p.Uint64("cookie_mask"),
		TableId:      p.Uint8("table_id"),
		Command:      p.Uint8("command"),
		IdleTimeout:  p.Uint16("idle_timeout"),
		HardTimeout:  p.Uint16("hard_timeout"),
		Priority:     p.Uint16("priority"),
		BufferId:     p.Uint32("buffer_id"),
		OutPort:      p.Uint32("out_port"),
		OutGroup:     p.Uint32("out_group"),
		Flags:        p.Uint16("flags"),
		Match:        match,
		Instructions: instructions,
	}
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackPacketOutMsg(p schema.Params) error {
	actions, err := e.packActions(p.List("actions"))
	if err != nil {
		return err
	}
	m := ofp13.NewOfpPacketOut(p.Uint32("buffer_id"), p.Uint32("in_port"), actions, p.Bytes("raw_data"))
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackGroupModMsg(p schema.Params) error {
	m := ofp13.NewOfpGroupMod(p.Uint16("command"), p.Uint8("type"), p.Uint32("group_id"))
	m.Header.Xid = xid(p)

	for _, obj := range p.List("buckets") {
		bp := obj.Params()
		b := ofp13.NewOfpBucket(bp.Uint16("weight"), bp.Uint32("watch_port"), bp.Uint32("watch_group"))
		actions, err := e.packActions(bp.List("actions"))
		if err != nil {
			return err
		}
		for _, a := range actions {
			b.Append(a)
		}
		m.Buckets = append(m.Buckets, b)
	}
	return e.message(m)
}

func (e *Encoder) PackPortModMsg(p schema.Params) error {
	m, err := ofp13.NewOfpPortMod(p.Uint32("port_no"), p.MAC("hw_addr").String(),
		p.Uint32("config"), p.Uint32("mask"), p.Uint32("advertise"))
	if err != nil {
		return err
	}
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) PackTableModMsg(p schema.Params) error {
	m := ofp13.NewOfpTableMod(p.Uint8("table_id"), p.Uint32("config"))
	m.Header.Xid = xid(p)
	return e.message(tableMod{m})
}

func (e *Encoder) PackRoleRequestMsg(p schema.Params) error {
	m := ofp13.NewOfpRoleRequest(p.Uint32("role"), p.Uint64("generation_id"))
	m.Header.Xid = xid(p)
	return e.message(m)
}

func (e *Encoder) multipart(m *ofp13.OfpMultipartRequest, p schema.Params) error {
	m.Header.Xid = xid(p)
	m.Header.Length = uint16(m.Size())
	return e.message(m)
}

func (e *Encoder) PackMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpMultipartRequest(p.Uint16("type"), p.Uint16("flags")), p)
}

func (e *Encoder) PackDescMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpDescStatsRequest(p.Uint16("flags")), p)
}

func (e *Encoder) PackFlowMultipartRequestMsg(p schema.Params) error {
	match, err := packMatch(p.Object("match"))
	if err != nil {
		return err
	}
	return e.multipart(ofp13.NewOfpFlowStatsRequest(p.Uint16("flags"), p.Uint8("table_id"),
		p.Uint32("out_port"), p.Uint32("out_group"), p.Uint64("cookie"), p.Uint64("cookie_mask"), match), p)
}

func (e *Encoder) PackAggregateMultipartRequestMsg(p schema.Params) error {
	match, err := packMatch(p.Object("match"))
	if err != nil {
		return err
	}
	return e.multipart(ofp13.NewOfpAggregateStatsRequest(p.Uint16("flags"), p.Uint8("table_id"),
		p.Uint32("out_port"), p.Uint32("out_group"), p.Uint64("cookie"), p.Uint64("cookie_mask"), match), p)
}

func (e *Encoder) PackTableMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpTableStatsRequest(p.Uint16("flags")), p)
}

func (e *Encoder) PackPortMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpPortStatsRequest(p.Uint32("port_no"), p.Uint16("flags")), p)
}

func (e *Encoder) PackTableFeaturesMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpTableFeaturesStatsRequest(p.Uint16("flags"), nil), p)
}

func (e *Encoder) PackGroupMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpGroupStatsRequest(p.Uint32("group_id"), p.Uint16("flags")), p)
}

func (e *Encoder) PackGroupDescMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpGroupDescStatsRequest(p.Uint16("flags")), p)
}

func (e *Encoder) PackPortDescMultipartRequestMsg(p schema.Params) error {
	return e.multipart(ofp13.NewOfpPortDescStatsRequest(p.Uint16("flags")), p)
}
