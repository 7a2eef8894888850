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

package flows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/protocol"
	"github.com/kube-ovs/ofschema/schema"
	"k8s.io/klog"
)

var (
	// ErrUnsupported is returned for values ovs-ofctl flow syntax cannot express.
	ErrUnsupported = errors.New("not expressible as ovs-ofctl flow text")

	errNoFlow = errors.New("instruction outside of a flow mod")
)

// ovsNames maps match field names to their ovs-ofctl spelling where the two
// differ.
var ovsNames = map[string]string{
	"ipv4_src":       "nw_src",
	"ipv4_dst":       "nw_dst",
	"ip_proto":       "nw_proto",
	"ip_ecn":         "nw_ecn",
	"icmpv4_type":    "icmp_type",
	"icmpv4_code":    "icmp_code",
	"ipv6_flabel":    "ipv6_label",
	"ipv6_nd_target": "nd_target",
	"ipv6_nd_sll":    "nd_sll",
	"ipv6_nd_tll":    "nd_tll",
	"tunnel_id":      "tun_id",
}

var hexFields = map[string]bool{
	"metadata":    true,
	"eth_type":    true,
	"tunnel_id":   true,
	"ipv6_exthdr": true,
}

func ovsName(field string) string {
	if name, ok := ovsNames[field]; ok {
		return name
	}
	return field
}

func formatValue(field string, v schema.Value) string {
	switch v.Kind() {
	case schema.MAC:
		return v.MAC().String()
	case schema.IP:
		return v.IP().String()
	}
	if hexFields[field] {
		return fmt.Sprintf("0x%x", v.Uint())
	}
	return fmt.Sprintf("%d", v.Uint())
}

// Encoder renders flow mods and their actions and instructions as
// ovs-ofctl flow text. Other messages are left to UnimplementedEncoder.
type Encoder struct {
	protocol.UnimplementedEncoder

	model   *protocol.Model
	flows   []*Flow
	actions []string
	flow    *Flow
}

var _ protocol.Encoder = &Encoder{}

func NewEncoder(m *protocol.Model) *Encoder {
	return &Encoder{model: m}
}

func (e *Encoder) Encode(obj *schema.Object) error {
	return e.model.Encode(obj, e)
}

// Flows returns the flows rendered so far.
func (e *Encoder) Flows() []*Flow { return e.flows }

// Actions returns the text of actions encoded outside of any instruction.
func (e *Encoder) Actions() []string { return e.actions }

func (e *Encoder) Reset() {
	e.flows = nil
	e.actions = nil
}

// AddTo adds every rendered flow to buffer.
func (e *Encoder) AddTo(buffer *FlowsBuffer) error {
	for _, flow := range e.flows {
		if err := buffer.AddFlow(flow); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) action(text string) error {
	e.actions = append(e.actions, text)
	return nil
}

func (e *Encoder) packActions(objs []*schema.Object) ([]string, error) {
	saved := e.actions
	e.actions = make([]string, 0, len(objs))

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

func (e *Encoder) setField(field string, v schema.Value) error {
	return e.action(TargetAction{
		ActionType: SetField,
		Source:     formatValue(field, v),
		Target:     ovsName(field),
	}.String())
}

func matchFields(match *schema.Object, flow *Flow) {
	match.Each(func(f *schema.FieldSpec, v schema.Value) {
		name := f.Name()
		if strings.HasSuffix(name, "_mask") {
			return
		}
		value := formatValue(name, v)
		if mask, ok := match.Get(name + "_mask"); ok {
			value = fmt.Sprintf("%s/%s", value, formatValue(name, mask))
		}
		flow.WithMatch(ovsName(name), value)
	})
}

func (e *Encoder) PackFlowModMsg(p schema.Params) error {
	if command := p.Uint8("command"); command != ofp13.OFPFC_ADD {
		return fmt.Errorf("%w: flow mod command %d", ErrUnsupported, command)
	}

	flow := NewFlow().
		WithTable(int(p.Uint8("table_id"))).
		WithPriority(int(p.Uint16("priority"))).
		WithCookie(p.Uint64("cookie")).
		WithIdleTimeout(int(p.Uint16("idle_timeout"))).
		WithHardTimeout(int(p.Uint16("hard_timeout")))
	if match := p.Object("match"); match != nil {
		matchFields(match, flow)
	}

	saved := e.flow
	e.flow = flow
	defer func() { e.flow = saved }()

	for _, obj := range p.List("instructions") {
		if err := e.model.Encode(obj, e); err != nil {
			return err
		}
	}

	klog.V(5).Infof("rendered flow %s", flow)
	e.flows = append(e.flows, flow)
	return nil
}

// Instructions

func (e *Encoder) PackGotoTableInstruction(p schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	e.flow.WithGotoTable(int(p.Uint8("table_id")))
	return nil
}

func (e *Encoder) PackWriteMetadataInstruction(p schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	e.flow.WithWriteMetadata(p.Uint64("metadata"), p.Uint64("metadata_mask"))
	return nil
}

func (e *Encoder) PackApplyActionInstruction(p schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	actions, err := e.packActions(p.List("actions"))
	if err != nil {
		return err
	}
	for _, a := range actions {
		e.flow.WithAction(a)
	}
	return nil
}

func (e *Encoder) PackWriteActionInstruction(p schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	actions, err := e.packActions(p.List("actions"))
	if err != nil {
		return err
	}
	e.flow.WithWriteActions(actions...)
	return nil
}

func (e *Encoder) PackClearActionInstruction(schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	e.flow.WithClearActions()
	return nil
}

func (e *Encoder) PackMeterInstruction(p schema.Params) error {
	if e.flow == nil {
		return errNoFlow
	}
	e.flow.WithMeter(int(p.Uint32("meter_id")))
	return nil
}

// Actions

func (e *Encoder) PackSendOutPort(p schema.Params) error {
	switch port := p.Uint32("port_number"); port {
	case ofp13.OFPP_IN_PORT:
		return e.action("in_port")
	case ofp13.OFPP_LOCAL:
		return e.action("local")
	case ofp13.OFPP_NORMAL:
		return e.action("normal")
	case ofp13.OFPP_FLOOD:
		return e.action("flood")
	case ofp13.OFPP_ALL:
		return e.action("all")
	case ofp13.OFPP_CONTROLLER:
		if maxLen := p.Uint16("max_len"); maxLen != ofp13.OFPCML_NO_BUFFER {
			return e.action(fmt.Sprintf("controller:%d", maxLen))
		}
		return e.action("controller")
	case ofp13.OFPP_ANY:
		return fmt.Errorf("%w: output to any port", ErrUnsupported)
	default:
		return e.action(fmt.Sprintf("output:%d", port))
	}
}

func (e *Encoder) PackCopyTtlOut(schema.Params) error { return e.action("copy_ttl_out") }
func (e *Encoder) PackCopyTtlIn(schema.Params) error  { return e.action("copy_ttl_in") }
func (e *Encoder) PackDecMplsTtl(schema.Params) error { return e.action("dec_mpls_ttl") }
func (e *Encoder) PackPopVlan(schema.Params) error    { return e.action("pop_vlan") }
func (e *Encoder) PackDecIpTtl(schema.Params) error   { return e.action("dec_ttl") }

func (e *Encoder) PackSetMplsTtl(p schema.Params) error {
	return e.action(fmt.Sprintf("set_mpls_ttl:%d", p.Uint8("mpls_ttl")))
}

func (e *Encoder) PackPushVlan(p schema.Params) error {
	return e.action(fmt.Sprintf("push_vlan:0x%04x", p.Uint16("ether_type")))
}

func (e *Encoder) PackPushMpls(p schema.Params) error {
	return e.action(fmt.Sprintf("push_mpls:0x%04x", p.Uint16("ether_type")))
}

func (e *Encoder) PackPopMpls(p schema.Params) error {
	return e.action(fmt.Sprintf("pop_mpls:0x%04x", p.Uint16("ether_type")))
}

func (e *Encoder) PackSetQueue(p schema.Params) error {
	return e.action(fmt.Sprintf("set_queue:%d", p.Uint32("queue_id")))
}

func (e *Encoder) PackGroupAction(p schema.Params) error {
	return e.action(fmt.Sprintf("group:%d", p.Uint32("group_id")))
}

func (e *Encoder) PackSetIpTtl(p schema.Params) error {
	return e.action(fmt.Sprintf("mod_nw_ttl:%d", p.Uint8("ip_ttl")))
}

// Set-field actions

func (e *Encoder) PackInPort(p schema.Params) error    { return e.setField("in_port", p["in_port"]) }
func (e *Encoder) PackInPhyPort(p schema.Params) error { return e.setField("in_phy_port", p["in_phy_port"]) }
func (e *Encoder) PackMetadata(p schema.Params) error  { return e.setField("metadata", p["metadata"]) }
func (e *Encoder) PackEthDst(p schema.Params) error    { return e.setField("eth_dst", p["mac_address"]) }
func (e *Encoder) PackEthSrc(p schema.Params) error    { return e.setField("eth_src", p["mac_address"]) }
func (e *Encoder) PackEtherType(p schema.Params) error { return e.setField("eth_type", p["ether_type"]) }
func (e *Encoder) PackVlanVid(p schema.Params) error   { return e.setField("vlan_vid", p["vlan_vid"]) }
func (e *Encoder) PackIpDscp(p schema.Params) error    { return e.setField("ip_dscp", p["ip_dscp"]) }
func (e *Encoder) PackIpEcn(p schema.Params) error     { return e.setField("ip_ecn", p["ip_ecn"]) }
func (e *Encoder) PackIpProto(p schema.Params) error   { return e.setField("ip_proto", p["ip_proto"]) }
func (e *Encoder) PackArpOp(p schema.Params) error     { return e.setField("arp_op", p["arp_op"]) }
func (e *Encoder) PackArpSha(p schema.Params) error    { return e.setField("arp_sha", p["mac_address"]) }
func (e *Encoder) PackArpTha(p schema.Params) error    { return e.setField("arp_tha", p["mac_address"]) }
func (e *Encoder) PackArpSpa(p schema.Params) error    { return e.setField("arp_spa", p["ip_addr"]) }
func (e *Encoder) PackArpTpa(p schema.Params) error    { return e.setField("arp_tpa", p["ip_addr"]) }
func (e *Encoder) PackMplsLabel(p schema.Params) error { return e.setField("mpls_label", p["mpls_label"]) }
func (e *Encoder) PackMplsTc(p schema.Params) error    { return e.setField("mpls_tc", p["mpls_tc"]) }
func (e *Encoder) PackMplsBos(p schema.Params) error   { return e.setField("mpls_bos", p["mpls_bos"]) }
func (e *Encoder) PackPbbIsid(p schema.Params) error   { return e.setField("pbb_isid", p["pbb_isid"]) }
func (e *Encoder) PackTunnelId(p schema.Params) error  { return e.setField("tunnel_id", p["tunnel_id"]) }

func (e *Encoder) PackVlanPriority(p schema.Params) error {
	return e.setField("vlan_pcp", p["vlan_pcp"])
}

func (e *Encoder) PackIpv4SrcAddr(p schema.Params) error {
	return e.setField("ipv4_src", p["ip_addr"])
}

func (e *Encoder) PackIpv4DstAddr(p schema.Params) error {
	return e.setField("ipv4_dst", p["ip_addr"])
}

func (e *Encoder) PackIpv6SrcAddr(p schema.Params) error {
	return e.setField("ipv6_src", p["ip_addr"])
}

func (e *Encoder) PackIpv6DstAddr(p schema.Params) error {
	return e.setField("ipv6_dst", p["ip_addr"])
}

func (e *Encoder) PackIpv6NdTarget(p schema.Params) error {
	return e.setField("ipv6_nd_target", p["ip_addr"])
}

func (e *Encoder) PackIpv6NdSll(p schema.Params) error {
	return e.setField("ipv6_nd_sll", p["mac_address"])
}

func (e *Encoder) PackIpv6NdTll(p schema.Params) error {
	return e.setField("ipv6_nd_tll", p["mac_address"])
}

func (e *Encoder) PackIpv6FlowLabel(p schema.Params) error {
	return e.setField("ipv6_flabel", p["ipv6_flow_label"])
}

func (e *Encoder) PackIpv6Exthdr(p schema.Params) error {
	return e.setField("ipv6_exthdr", p["ipv6_exthdr"])
}

func (e *Encoder) PackTcpSrcPort(p schema.Params) error {
	return e.setField("tcp_src", p["transport_port"])
}

func (e *Encoder) PackTcpDstPort(p schema.Params) error {
	return e.setField("tcp_dst", p["transport_port"])
}

func (e *Encoder) PackUdpSrcPort(p schema.Params) error {
	return e.setField("udp_src", p["transport_port"])
}

func (e *Encoder) PackUdpDstPort(p schema.Params) error {
	return e.setField("udp_dst", p["transport_port"])
}

func (e *Encoder) PackSctpSrcPort(p schema.Params) error {
	return e.setField("sctp_src", p["transport_port"])
}

func (e *Encoder) PackSctpDstPort(p schema.Params) error {
	return e.setField("sctp_dst", p["transport_port"])
}

func (e *Encoder) PackIcmpv4Type(p schema.Params) error {
	return e.setField("icmpv4_type", p["icmpv4_type"])
}

func (e *Encoder) PackIcmpv4Code(p schema.Params) error {
	return e.setField("icmpv4_code", p["icmpv4_code"])
}

func (e *Encoder) PackIcmpv6Type(p schema.Params) error {
	return e.setField("icmpv6_type", p["icmpv6_type"])
}

func (e *Encoder) PackIcmpv6Code(p schema.Params) error {
	return e.setField("icmpv6_code", p["icmpv6_code"])
}
