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
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/kube-ovs/ofschema/schema"
)

var (
	srcMAC = net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	dstMAC = net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x02}
)

func serialize(t *testing.T, l ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, l...); err != nil {
		t.Fatalf("failed to serialize packet: %v", err)
	}
	return buf.Bytes()
}

func tcpFrame(t *testing.T) []byte {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TOS:      0xb9,
		Id:       7,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{10, 0, 0, 2},
	}
	tcp := &layers.TCP{SrcPort: 34567, DstPort: 80, SYN: true, Window: 1024}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return serialize(t, eth, ip, tcp, gopacket.Payload([]byte("hello")))
}

func arpFrame(t *testing.T) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   srcMAC,
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{10, 0, 0, 2},
	}
	return serialize(t, eth, arp)
}

func packetInfoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, ok := load(t).Schema(schema.RoleNone, "PacketInfo")
	if !ok {
		t.Fatal("no PacketInfo schema in the model")
	}
	return s
}

func Test_PacketInfo(t *testing.T) {
	s := packetInfoSchema(t)

	tests := []struct {
		name  string
		frame func(t *testing.T) []byte
		check func(t *testing.T, p schema.Params)
	}{
		{
			name:  "ipv4 tcp",
			frame: tcpFrame,
			check: func(t *testing.T, p schema.Params) {
				if p.MAC("eth_src").String() != srcMAC.String() || p.MAC("eth_dst").String() != dstMAC.String() {
					t.Errorf("unexpected addresses %s -> %s", p.MAC("eth_src"), p.MAC("eth_dst"))
				}
				if p.Uint16("eth_type") != 0x0800 || !p.Bool("ipv4") || p.Bool("ipv6") || p.Bool("arp") {
					t.Errorf("unexpected layer flags %v", p)
				}
				if !p.IP("ipv4_src").Equal(net.IP{10, 0, 0, 1}) || !p.IP("ipv4_dst").Equal(net.IP{10, 0, 0, 2}) {
					t.Errorf("unexpected IPv4 addresses %s -> %s", p.IP("ipv4_src"), p.IP("ipv4_dst"))
				}
				if p.Uint8("ip_dscp") != 46 || p.Uint8("ip_ecn") != 1 || p.Uint8("ipv4_tos") != 0xb9 {
					t.Errorf("unexpected dscp %d, ecn %d", p.Uint8("ip_dscp"), p.Uint8("ip_ecn"))
				}
				if p.Uint8("ip_proto") != 6 || p.Uint16("ipv4_id") != 7 || p.Uint16("ipv4_tot_len") != 45 {
					t.Errorf("unexpected IPv4 header fields %v", p)
				}
				if !p.Bool("tcp") || p.Uint16("tcp_src") != 34567 || p.Uint16("tcp_dst") != 80 {
					t.Errorf("unexpected TCP ports %d -> %d", p.Uint16("tcp_src"), p.Uint16("tcp_dst"))
				}
				if p.Bool("udp") || p.Bool("vtag") {
					t.Errorf("unexpected layer flags %v", p)
				}
			},
		},
		{
			name:  "arp request",
			frame: arpFrame,
			check: func(t *testing.T, p schema.Params) {
				if !p.Bool("arp") || !p.Bool("arp_request") || p.Bool("arp_reply") {
					t.Errorf("unexpected ARP flags %v", p)
				}
				if p.Uint16("arp_op") != 1 || p.Uint16("eth_type") != 0x0806 {
					t.Errorf("unexpected ARP operation %d", p.Uint16("arp_op"))
				}
				if p.MAC("arp_sha").String() != srcMAC.String() {
					t.Errorf("unexpected sender hardware address %s", p.MAC("arp_sha"))
				}
				if !p.IP("arp_spa").Equal(net.IP{10, 0, 0, 1}) || !p.IP("arp_tpa").Equal(net.IP{10, 0, 0, 2}) {
					t.Errorf("unexpected protocol addresses %s -> %s", p.IP("arp_spa"), p.IP("arp_tpa"))
				}
				if p.Bool("ipv4") {
					t.Error("an ARP frame has no IPv4 layer")
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			obj, err := PacketInfo(s, test.frame(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			test.check(t, obj.Params())
		})
	}
}

func Test_PacketInfoVLAN(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeDot1Q}
	vlan := &layers.Dot1Q{Priority: 5, VLANIdentifier: 100, Type: layers.EthernetTypeIPv6}
	ip := &layers.IPv6{
		Version:      6,
		TrafficClass: 0x20,
		FlowLabel:    0x12345,
		NextHeader:   layers.IPProtocolUDP,
		HopLimit:     64,
		SrcIP:        net.ParseIP("fd00::1"),
		DstIP:        net.ParseIP("fd00::2"),
	}
	udp := &layers.UDP{SrcPort: 5353, DstPort: 53}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame := serialize(t, eth, vlan, ip, udp)

	obj, err := PacketInfo(packetInfoSchema(t), frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := obj.Params()
	if !p.Bool("vtag") || p.Uint16("vlan_vid") != 100 || p.Uint8("vlan_prio") != 5 {
		t.Errorf("unexpected VLAN tag %v", p)
	}
	if p.Uint16("vlan_tci") != 5<<13|100 || p.Uint16("vlan_tpid") != 0x8100 {
		t.Errorf("unexpected tci %x or tpid %x", p.Uint16("vlan_tci"), p.Uint16("vlan_tpid"))
	}
	if p.Uint16("eth_type") != 0x86dd || !p.Bool("ipv6") || p.Uint32("ipv6_flabel") != 0x12345 {
		t.Errorf("unexpected inner headers %v", p)
	}
	if p.Uint8("ip_dscp") != 8 || p.Uint8("ip_proto") != 17 {
		t.Errorf("unexpected dscp %d or proto %d", p.Uint8("ip_dscp"), p.Uint8("ip_proto"))
	}
	if !p.Bool("udp") || p.Uint16("udp_dst") != 53 || !p.IP("ipv6_src").Equal(net.ParseIP("fd00::1")) {
		t.Errorf("unexpected UDP fields %v", p)
	}
}

func Test_PacketInfoInvalid(t *testing.T) {
	if _, err := PacketInfo(packetInfoSchema(t), []byte{1, 2, 3}); err == nil {
		t.Error("expected an error for a truncated frame")
	}
}
