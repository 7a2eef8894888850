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
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/kube-ovs/ofschema/schema"
)

var errNotEthernet = errors.New("payload is not an Ethernet frame")

// PacketInfo parses an Ethernet frame, typically a packet-in payload, into
// an object of the packet info schema s. Layers gopacket cannot decode are
// left out; an undecodable Ethernet header is an error.
func PacketInfo(s *schema.Schema, data []byte) (*schema.Object, error) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)
	eth, ok := packet.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		if errLayer := packet.ErrorLayer(); errLayer != nil {
			return nil, errLayer.Error()
		}
		return nil, errNotEthernet
	}

	fields := schema.Fields{
		"eth_src":  eth.SrcMAC,
		"eth_dst":  eth.DstMAC,
		"eth_type": uint16(eth.EthernetType),
	}

	if vlan, ok := packet.Layer(layers.LayerTypeDot1Q).(*layers.Dot1Q); ok {
		var dei uint16
		if vlan.DropEligible {
			dei = 1
		}
		fields["vtag"] = true
		fields["vlan_vid"] = vlan.VLANIdentifier
		fields["vlan_prio"] = vlan.Priority
		fields["vlan_tci"] = uint16(vlan.Priority)<<13 | dei<<12 | vlan.VLANIdentifier
		fields["vlan_tpid"] = uint16(eth.EthernetType)
		fields["eth_type"] = uint16(vlan.Type)
	}

	if arp, ok := packet.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		fields["arp"] = true
		fields["arp_op"] = arp.Operation
		fields["arp_request"] = arp.Operation == layers.ARPRequest
		fields["arp_reply"] = arp.Operation == layers.ARPReply
		fields["arp_sha"] = net.HardwareAddr(arp.SourceHwAddress)
		fields["arp_tha"] = net.HardwareAddr(arp.DstHwAddress)
		fields["arp_spa"] = net.IP(arp.SourceProtAddress)
		fields["arp_tpa"] = net.IP(arp.DstProtAddress)
	}

	if ip, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4); ok {
		fields["ipv4"] = true
		fields["ipv4_src"] = ip.SrcIP
		fields["ipv4_dst"] = ip.DstIP
		fields["ipv4_tos"] = ip.TOS
		fields["ipv4_tot_len"] = ip.Length
		fields["ipv4_id"] = ip.Id
		fields["ip_dscp"] = ip.TOS >> 2
		fields["ip_ecn"] = ip.TOS & 0x03
		fields["ip_proto"] = uint8(ip.Protocol)
	}

	if ip, ok := packet.Layer(layers.LayerTypeIPv6).(*layers.IPv6); ok {
		fields["ipv6"] = true
		fields["ipv6_src"] = ip.SrcIP
		fields["ipv6_dst"] = ip.DstIP
		fields["ipv6_flabel"] = ip.FlowLabel
		fields["ip_dscp"] = ip.TrafficClass >> 2
		fields["ip_ecn"] = ip.TrafficClass & 0x03
		fields["ip_proto"] = uint8(ip.NextHeader)
	}

	if tcp, ok := packet.Layer(layers.LayerTypeTCP).(*layers.TCP); ok {
		fields["tcp"] = true
		fields["tcp_src"] = uint16(tcp.SrcPort)
		fields["tcp_dst"] = uint16(tcp.DstPort)
	}
	if udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
		fields["udp"] = true
		fields["udp_src"] = uint16(udp.SrcPort)
		fields["udp_dst"] = uint16(udp.DstPort)
	}
	if sctp, ok := packet.Layer(layers.LayerTypeSCTP).(*layers.SCTP); ok {
		fields["sctp"] = true
		fields["sctp_src"] = uint16(sctp.SrcPort)
		fields["sctp_dst"] = uint16(sctp.DstPort)
	}

	if icmp, ok := packet.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		fields["icmpv4"] = true
		fields["icmpv4_type"] = icmp.TypeCode.Type()
		fields["icmpv4_code"] = icmp.TypeCode.Code()
	}
	if icmp, ok := packet.Layer(layers.LayerTypeICMPv6).(*layers.ICMPv6); ok {
		fields["icmpv6"] = true
		fields["icmpv6_type"] = icmp.TypeCode.Type()
		fields["icmpv6_code"] = icmp.TypeCode.Code()
	}
	if ns, ok := packet.Layer(layers.LayerTypeICMPv6NeighborSolicitation).(*layers.ICMPv6NeighborSolicitation); ok {
		fields["ipv6_nd_target"] = ns.TargetAddress
		neighborOptions(fields, ns.Options)
	}
	if na, ok := packet.Layer(layers.LayerTypeICMPv6NeighborAdvertisement).(*layers.ICMPv6NeighborAdvertisement); ok {
		fields["ipv6_nd_target"] = na.TargetAddress
		neighborOptions(fields, na.Options)
	}

	if mpls, ok := packet.Layer(layers.LayerTypeMPLS).(*layers.MPLS); ok {
		var bos uint8
		if mpls.StackBottom {
			bos = 1
		}
		fields["mpls"] = true
		fields["mpls_label"] = mpls.Label
		fields["mpls_tc"] = mpls.TrafficClass
		fields["mpls_bos"] = bos
	}

	return schema.Construct(s, fields)
}

func neighborOptions(fields schema.Fields, opts layers.ICMPv6Options) {
	for _, opt := range opts {
		if len(opt.Data) < 6 {
			continue
		}
		switch opt.Type {
		case layers.ICMPv6OptSourceAddress:
			fields["ipv6_nd_sll"] = net.HardwareAddr(opt.Data[:6])
		case layers.ICMPv6OptTargetAddress:
			fields["ipv6_nd_tll"] = net.HardwareAddr(opt.Data[:6])
		}
	}
}
