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

func structure(name string) *schema.Builder {
	return schema.Declare(name, schema.RoleNone)
}

// structures declares the objects only ever nested inside messages. They have
// no wire code of their own and no encode routine.
func (d *declarer) structures() {
	d.match = d.declare(structure("Match").
		Uint32("in_port").Uint32("in_phy_port").
		Uint64("metadata").Uint64("metadata_mask").
		MAC("eth_src").MAC("eth_src_mask").
		MAC("eth_dst").MAC("eth_dst_mask").
		Uint16("eth_type").
		Uint16("vlan_vid", schema.Range(0, 0x1fff)).Uint16("vlan_vid_mask").
		Uint8("vlan_pcp", schema.Range(0, 7)).
		Uint8("ip_dscp", schema.Range(0, 63)).
		Uint8("ip_ecn", schema.Range(0, 3)).
		Uint8("ip_proto").
		IP("ipv4_src", schema.Validate(ipv4Only)).IP("ipv4_src_mask", schema.Validate(ipv4Only)).
		IP("ipv4_dst", schema.Validate(ipv4Only)).IP("ipv4_dst_mask", schema.Validate(ipv4Only)).
		Field(schema.Uint16, []string{"tcp_src", "tcp_dst", "udp_src", "udp_dst", "sctp_src", "sctp_dst"}).
		Field(schema.Uint8, []string{"icmpv4_type", "icmpv4_code"}).
		Uint16("arp_op").
		IP("arp_spa", schema.Validate(ipv4Only)).IP("arp_spa_mask", schema.Validate(ipv4Only)).
		IP("arp_tpa", schema.Validate(ipv4Only)).IP("arp_tpa_mask", schema.Validate(ipv4Only)).
		MAC("arp_sha").MAC("arp_sha_mask").
		MAC("arp_tha").MAC("arp_tha_mask").
		IP("ipv6_src", schema.Validate(ipv6Only)).IP("ipv6_src_mask", schema.Validate(ipv6Only)).
		IP("ipv6_dst", schema.Validate(ipv6Only)).IP("ipv6_dst_mask", schema.Validate(ipv6Only)).
		Field(schema.Uint32, []string{"ipv6_flabel", "ipv6_flabel_mask"}, schema.Range(0, 1<<20-1)).
		Field(schema.Uint8, []string{"icmpv6_type", "icmpv6_code"}).
		IP("ipv6_nd_target", schema.Validate(ipv6Only)).
		MAC("ipv6_nd_sll").MAC("ipv6_nd_tll").
		Uint32("mpls_label", schema.Range(0, 1<<20-1)).
		Uint8("mpls_tc", schema.Range(0, 7)).
		Uint8("mpls_bos", schema.Range(0, 1)).
		Field(schema.Uint32, []string{"pbb_isid", "pbb_isid_mask"}, schema.Range(0, 1<<24-1)).
		Uint64("tunnel_id").Uint64("tunnel_id_mask").
		Field(schema.Uint16, []string{"ipv6_exthdr", "ipv6_exthdr_mask"}, schema.Range(0, 0x1ff)),
		nil)

	d.bucket = d.declare(structure("Bucket").
		Uint16("weight").
		Uint32("watch_port", schema.Default(uint32(ofp13.OFPP_ANY))).
		Uint32("watch_group", schema.Default(uint32(ofp13.OFPG_ANY))).
		List("actions", schema.Elements(schema.RoleAction)),
		nil)

	d.counter = d.declare(structure("BucketCounter").
		Field(schema.Uint64, []string{"packet_count", "byte_count"}, schema.Required()),
		nil)

	d.port = d.declare(structure("Port").
		Uint32("port_no", schema.Required()).
		MAC("hw_addr").
		Text("name").
		Field(schema.Uint32, []string{
			"config", "state", "curr", "advertised", "supported", "peer", "curr_speed", "max_speed",
		}, schema.Required()),
		nil)

	d.info = d.declare(structure("PacketInfo").
		MAC("eth_src").MAC("eth_dst").
		Uint16("eth_type").
		Uint8("ip_dscp").Uint8("ip_ecn").Uint8("ip_proto").
		Bool("vtag").
		Uint16("vlan_vid").Uint16("vlan_tci").Uint8("vlan_prio").Uint16("vlan_tpid").
		Bool("ipv4").Bool("ipv6").
		Bool("arp").Bool("arp_request").Bool("arp_reply").
		Uint16("arp_op").
		MAC("arp_sha").MAC("arp_tha").
		IP("arp_spa").IP("arp_tpa").
		Bool("icmpv4").Uint8("icmpv4_type").Uint8("icmpv4_code").
		Bool("icmpv6").Uint8("icmpv6_type").Uint8("icmpv6_code").
		IP("ipv6_nd_target").MAC("ipv6_nd_sll").MAC("ipv6_nd_tll").
		IP("ipv4_src").IP("ipv4_dst").
		Uint8("ipv4_tos").Uint16("ipv4_tot_len").Uint16("ipv4_id").
		Bool("tcp").Uint16("tcp_src").Uint16("tcp_dst").
		Bool("udp").Uint16("udp_src").Uint16("udp_dst").
		Bool("sctp").Uint16("sctp_src").Uint16("sctp_dst").
		IP("ipv6_src").IP("ipv6_dst").
		Uint32("ipv6_flabel").Uint16("ipv6_exthdr").
		Bool("mpls").Uint32("mpls_label").Uint8("mpls_tc").Uint8("mpls_bos").
		Bool("pbb").Uint32("pbb_isid"),
		nil)
}
