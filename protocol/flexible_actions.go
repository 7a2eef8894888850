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
	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/schema"
)

// flexibleActions declares the set-field actions. Each one rewrites a single
// match field and registers under its OXM field code.
func (d *declarer) flexibleActions() {
	d.flexible = d.declare(action("FlexibleAction").Abstract(), nil)
	flexible := func(name string) *schema.Builder {
		return action(name).Extends(d.flexible)
	}

	d.declare(flexible("InPort").Uint32("in_port", schema.Required()), Encoder.PackInPort)
	d.declare(flexible("InPhyPort").Uint32("in_phy_port", schema.Required()), Encoder.PackInPhyPort)
	d.declare(flexible("Metadata").Uint64("metadata", schema.Required()), Encoder.PackMetadata)

	ethAddr := d.declare(flexible("EthAddr").Abstract().MAC("mac_address", schema.Required()), nil)
	for _, a := range []struct {
		name   string
		alias  string
		encode EncodeFunc
	}{
		{"EthDst", "eth_dst", Encoder.PackEthDst},
		{"EthSrc", "eth_src", Encoder.PackEthSrc},
		{"ArpSha", "arp_sha", Encoder.PackArpSha},
		{"ArpTha", "arp_tha", Encoder.PackArpTha},
		{"Ipv6NdSll", "ipv6_nd_sll", Encoder.PackIpv6NdSll},
		{"Ipv6NdTll", "ipv6_nd_tll", Encoder.PackIpv6NdTll},
	} {
		d.declare(action(a.name).Extends(ethAddr).MAC("mac_address", schema.Alias(a.alias)), a.encode)
	}

	d.declare(flexible("EtherType").Uint16("ether_type", schema.Required()),
		Encoder.PackEtherType, matchFieldKey(ofp13.OFPXMT_OFB_ETH_TYPE))
	d.declare(flexible("VlanVid").Uint16("vlan_vid", schema.Required(), schema.Range(0, 0x1fff)),
		Encoder.PackVlanVid)
	d.declare(flexible("VlanPriority").Uint8("vlan_pcp", schema.Required(), schema.Range(0, 7)),
		Encoder.PackVlanPriority, matchFieldKey(ofp13.OFPXMT_OFB_VLAN_PCP))
	d.declare(flexible("IpDscp").Uint8("ip_dscp", schema.Required(), schema.Range(0, 63)), Encoder.PackIpDscp)
	d.declare(flexible("IpEcn").Uint8("ip_ecn", schema.Required(), schema.Range(0, 3)), Encoder.PackIpEcn)
	d.declare(flexible("IpProto").Uint8("ip_proto", schema.Required()), Encoder.PackIpProto)

	ipAddr := d.declare(flexible("ActionIpAddr").Abstract().IP("ip_addr", schema.Required()), nil)
	for _, a := range []struct {
		name   string
		alias  string
		check  func(schema.Value) error
		encode EncodeFunc
		code   uint64
	}{
		{"Ipv4SrcAddr", "ipv4_src", ipv4Only, Encoder.PackIpv4SrcAddr, ofp13.OFPXMT_OFB_IPV4_SRC},
		{"Ipv4DstAddr", "ipv4_dst", ipv4Only, Encoder.PackIpv4DstAddr, ofp13.OFPXMT_OFB_IPV4_DST},
		{"ArpSpa", "arp_spa", ipv4Only, Encoder.PackArpSpa, ofp13.OFPXMT_OFB_ARP_SPA},
		{"ArpTpa", "arp_tpa", ipv4Only, Encoder.PackArpTpa, ofp13.OFPXMT_OFB_ARP_TPA},
		{"Ipv6SrcAddr", "ipv6_src", ipv6Only, Encoder.PackIpv6SrcAddr, ofp13.OFPXMT_OFB_IPV6_SRC},
		{"Ipv6DstAddr", "ipv6_dst", ipv6Only, Encoder.PackIpv6DstAddr, ofp13.OFPXMT_OFB_IPV6_DST},
		{"Ipv6NdTarget", "ipv6_nd_target", ipv6Only, Encoder.PackIpv6NdTarget, ofp13.OFPXMT_OFB_IPV6_ND_TARGET},
	} {
		d.declare(action(a.name).Extends(ipAddr).IP("ip_addr", schema.Alias(a.alias), schema.Validate(a.check)),
			a.encode, matchFieldKey(a.code))
	}

	transport := d.declare(flexible("TransportPort").Abstract().Uint16("transport_port", schema.Required()), nil)
	for _, a := range []struct {
		name   string
		alias  string
		encode EncodeFunc
		code   uint64
	}{
		{"TcpSrcPort", "tcp_src", Encoder.PackTcpSrcPort, ofp13.OFPXMT_OFB_TCP_SRC},
		{"TcpDstPort", "tcp_dst", Encoder.PackTcpDstPort, ofp13.OFPXMT_OFB_TCP_DST},
		{"UdpSrcPort", "udp_src", Encoder.PackUdpSrcPort, ofp13.OFPXMT_OFB_UDP_SRC},
		{"UdpDstPort", "udp_dst", Encoder.PackUdpDstPort, ofp13.OFPXMT_OFB_UDP_DST},
		{"SctpSrcPort", "sctp_src", Encoder.PackSctpSrcPort, ofp13.OFPXMT_OFB_SCTP_SRC},
		{"SctpDstPort", "sctp_dst", Encoder.PackSctpDstPort, ofp13.OFPXMT_OFB_SCTP_DST},
	} {
		d.declare(action(a.name).Extends(transport).Uint16("transport_port", schema.Alias(a.alias)),
			a.encode, matchFieldKey(a.code))
	}

	d.declare(flexible("Icmpv4Type").Uint8("icmpv4_type", schema.Required()), Encoder.PackIcmpv4Type)
	d.declare(flexible("Icmpv4Code").Uint8("icmpv4_code", schema.Required()), Encoder.PackIcmpv4Code)
	d.declare(flexible("ArpOp").Uint16("arp_op", schema.Required()), Encoder.PackArpOp)
	d.declare(flexible("Ipv6FlowLabel").
		Uint32("ipv6_flow_label", schema.Required(), schema.Alias("ipv6_flabel"), schema.Range(0, 1<<20-1)),
		Encoder.PackIpv6FlowLabel, matchFieldKey(ofp13.OFPXMT_OFB_IPV6_FLABEL))
	d.declare(flexible("Icmpv6Type").Uint8("icmpv6_type", schema.Required()), Encoder.PackIcmpv6Type)
	d.declare(flexible("Icmpv6Code").Uint8("icmpv6_code", schema.Required()), Encoder.PackIcmpv6Code)
	d.declare(flexible("MplsLabel").Uint32("mpls_label", schema.Required(), schema.Range(0, 1<<20-1)), Encoder.PackMplsLabel)
	d.declare(flexible("MplsTc").Uint8("mpls_tc", schema.Required(), schema.Range(0, 7)), Encoder.PackMplsTc)
	d.declare(flexible("MplsBos").Uint8("mpls_bos", schema.Required(), schema.Range(0, 1)), Encoder.PackMplsBos)
	d.declare(flexible("PbbIsid").Uint32("pbb_isid", schema.Required(), schema.Range(0, 1<<24-1)), Encoder.PackPbbIsid)
	d.declare(flexible("TunnelId").Uint64("tunnel_id", schema.Required()), Encoder.PackTunnelId)
	d.declare(flexible("Ipv6Exthdr").Uint16("ipv6_exthdr", schema.Required(), schema.Range(0, 0x1ff)), Encoder.PackIpv6Exthdr)
}
