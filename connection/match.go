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
	"fmt"
	"net"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/schema"
)

// oxmCodec converts one OXM match field between a schema value and its gofc
// representation. A nil packMasked means the field cannot be masked.
type oxmCodec struct {
	name       string
	pack       func(v schema.Value) (ofp13.OxmField, error)
	packMasked func(v, mask schema.Value) (ofp13.OxmField, error)
}

func plain(f ofp13.OxmField) (ofp13.OxmField, error) {
	return f, nil
}

func u8(v schema.Value) uint8   { return uint8(v.Uint()) }
func u16(v schema.Value) uint16 { return uint16(v.Uint()) }
func u32(v schema.Value) uint32 { return uint32(v.Uint()) }

func isid(v schema.Value) [3]uint8 {
	n := v.Uint()
	return [3]uint8{uint8(n >> 16), uint8(n >> 8), uint8(n)}
}

func prefixLen(mask net.IP, v4 bool) (int, error) {
	m := net.IPMask(mask.To16())
	if v4 {
		m = net.IPMask(mask.To4())
	}
	ones, bits := m.Size()
	if bits == 0 {
		return 0, fmt.Errorf("mask %s is not a prefix mask", mask)
	}
	return ones, nil
}

var oxmCodecs = map[uint32]oxmCodec{
	ofp13.OFPXMT_OFB_IN_PORT: {
		name: "in_port",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmInPort(u32(v))) },
	},
	ofp13.OFPXMT_OFB_IN_PHY_PORT: {
		name: "in_phy_port",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmInPhyPort(u32(v))) },
	},
	ofp13.OFPXMT_OFB_METADATA: {
		name: "metadata",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmMetadata(v.Uint())) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmMetadataW(v.Uint(), mask.Uint()))
		},
	},
	ofp13.OFPXMT_OFB_ETH_DST: {
		name: "eth_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmEthDst(v.MAC().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return ofp13.NewOxmEthDstW(v.MAC().String(), mask.MAC().String())
		},
	},
	ofp13.OFPXMT_OFB_ETH_SRC: {
		name: "eth_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmEthSrc(v.MAC().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return ofp13.NewOxmEthSrcW(v.MAC().String(), mask.MAC().String())
		},
	},
	ofp13.OFPXMT_OFB_ETH_TYPE: {
		name: "eth_type",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmEthType(u16(v))) },
	},
	ofp13.OFPXMT_OFB_VLAN_VID: {
		name: "vlan_vid",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmVlanVid(u16(v))) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmVlanVidW(u16(v), u16(mask)))
		},
	},
	ofp13.OFPXMT_OFB_VLAN_PCP: {
		name: "vlan_pcp",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmVlanPcp(u8(v))) },
	},
	ofp13.OFPXMT_OFB_IP_DSCP: {
		name: "ip_dscp",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIpDscp(u8(v))) },
	},
	ofp13.OFPXMT_OFB_IP_ECN: {
		name: "ip_ecn",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIpEcn(u8(v))) },
	},
	ofp13.OFPXMT_OFB_IP_PROTO: {
		name: "ip_proto",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIpProto(u8(v))) },
	},
	ofp13.OFPXMT_OFB_IPV4_SRC: {
		name: "ipv4_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv4Src(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), true)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmIpv4SrcW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_IPV4_DST: {
		name: "ipv4_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv4Dst(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), true)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmIpv4DstW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_TCP_SRC: {
		name: "tcp_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmTcpSrc(u16(v))) },
	},
	ofp13.OFPXMT_OFB_TCP_DST: {
		name: "tcp_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmTcpDst(u16(v))) },
	},
	ofp13.OFPXMT_OFB_UDP_SRC: {
		name: "udp_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmUdpSrc(u16(v))) },
	},
	ofp13.OFPXMT_OFB_UDP_DST: {
		name: "udp_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmUdpDst(u16(v))) },
	},
	ofp13.OFPXMT_OFB_SCTP_SRC: {
		name: "sctp_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmSctpSrc(u16(v))) },
	},
	ofp13.OFPXMT_OFB_SCTP_DST: {
		name: "sctp_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmSctpDst(u16(v))) },
	},
	ofp13.OFPXMT_OFB_ICMPV4_TYPE: {
		name: "icmpv4_type",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIcmpType(u8(v))) },
	},
	ofp13.OFPXMT_OFB_ICMPV4_CODE: {
		name: "icmpv4_code",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIcmpCode(u8(v))) },
	},
	ofp13.OFPXMT_OFB_ARP_OP: {
		name: "arp_op",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmArpOp(u16(v))) },
	},
	ofp13.OFPXMT_OFB_ARP_SPA: {
		name: "arp_spa",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmArpSpa(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), true)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmArpSpaW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_ARP_TPA: {
		name: "arp_tpa",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmArpTpa(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), true)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmArpTpaW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_ARP_SHA: {
		name: "arp_sha",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmArpSha(v.MAC().String()) },
	},
	ofp13.OFPXMT_OFB_ARP_THA: {
		name: "arp_tha",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmArpTha(v.MAC().String()) },
	},
	ofp13.OFPXMT_OFB_IPV6_SRC: {
		name: "ipv6_src",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv6Src(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), false)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmIpv6SrcW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_IPV6_DST: {
		name: "ipv6_dst",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv6Dst(v.IP().String()) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			n, err := prefixLen(mask.IP(), false)
			if err != nil {
				return nil, err
			}
			return ofp13.NewOxmIpv6DstW(v.IP().String(), n)
		},
	},
	ofp13.OFPXMT_OFB_IPV6_FLABEL: {
		name: "ipv6_flabel",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIpv6FLabel(u32(v))) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmIpv6FLabelW(u32(v), u32(mask)))
		},
	},
	ofp13.OFPXMT_OFB_ICMPV6_TYPE: {
		name: "icmpv6_type",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIcmpv6Type(u8(v))) },
	},
	ofp13.OFPXMT_OFB_ICMPV6_CODE: {
		name: "icmpv6_code",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIcmpv6Code(u8(v))) },
	},
	ofp13.OFPXMT_OFB_IPV6_ND_TARGET: {
		name: "ipv6_nd_target",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv6NdTarget(v.IP().String()) },
	},
	ofp13.OFPXMT_OFB_IPV6_ND_SLL: {
		name: "ipv6_nd_sll",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv6NdSll(v.MAC().String()) },
	},
	ofp13.OFPXMT_OFB_IPV6_ND_TLL: {
		name: "ipv6_nd_tll",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return ofp13.NewOxmIpv6NdTll(v.MAC().String()) },
	},
	ofp13.OFPXMT_OFB_MPLS_LABEL: {
		name: "mpls_label",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmMplsLabel(u32(v))) },
	},
	ofp13.OFPXMT_OFB_MPLS_TC: {
		name: "mpls_tc",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmMplsTc(u8(v))) },
	},
	ofp13.OFPXMT_OFB_MPLS_BOS: {
		name: "mpls_bos",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmMplsBos(u8(v))) },
	},
	ofp13.OFPXMT_OFB_PBB_ISID: {
		name: "pbb_isid",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmPbbIsid(isid(v))) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmPbbIsidW(isid(v), isid(mask)))
		},
	},
	ofp13.OFPXMT_OFB_TUNNEL_ID: {
		name: "tunnel_id",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmTunnelId(v.Uint())) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmTunnelIdW(v.Uint(), mask.Uint()))
		},
	},
	ofp13.OFPXMT_OFB_IPV6_EXTHDR: {
		name: "ipv6_exthdr",
		pack: func(v schema.Value) (ofp13.OxmField, error) { return plain(ofp13.NewOxmIpv6ExtHeader(u16(v))) },
		packMasked: func(v, mask schema.Value) (ofp13.OxmField, error) {
			return plain(ofp13.NewOxmIpv6ExtHeaderW(u16(v), u16(mask)))
		},
	},
}

// matchOrder lists the OXM fields in the order they are written to a match.
var matchOrder = []uint32{
	ofp13.OFPXMT_OFB_IN_PORT, ofp13.OFPXMT_OFB_IN_PHY_PORT, ofp13.OFPXMT_OFB_METADATA,
	ofp13.OFPXMT_OFB_ETH_DST, ofp13.OFPXMT_OFB_ETH_SRC, ofp13.OFPXMT_OFB_ETH_TYPE,
	ofp13.OFPXMT_OFB_VLAN_VID, ofp13.OFPXMT_OFB_VLAN_PCP,
	ofp13.OFPXMT_OFB_IP_DSCP, ofp13.OFPXMT_OFB_IP_ECN, ofp13.OFPXMT_OFB_IP_PROTO,
	ofp13.OFPXMT_OFB_IPV4_SRC, ofp13.OFPXMT_OFB_IPV4_DST,
	ofp13.OFPXMT_OFB_TCP_SRC, ofp13.OFPXMT_OFB_TCP_DST,
	ofp13.OFPXMT_OFB_UDP_SRC, ofp13.OFPXMT_OFB_UDP_DST,
	ofp13.OFPXMT_OFB_SCTP_SRC, ofp13.OFPXMT_OFB_SCTP_DST,
	ofp13.OFPXMT_OFB_ICMPV4_TYPE, ofp13.OFPXMT_OFB_ICMPV4_CODE,
	ofp13.OFPXMT_OFB_ARP_OP, ofp13.OFPXMT_OFB_ARP_SPA, ofp13.OFPXMT_OFB_ARP_TPA,
	ofp13.OFPXMT_OFB_ARP_SHA, ofp13.OFPXMT_OFB_ARP_THA,
	ofp13.OFPXMT_OFB_IPV6_SRC, ofp13.OFPXMT_OFB_IPV6_DST, ofp13.OFPXMT_OFB_IPV6_FLABEL,
	ofp13.OFPXMT_OFB_ICMPV6_TYPE, ofp13.OFPXMT_OFB_ICMPV6_CODE,
	ofp13.OFPXMT_OFB_IPV6_ND_TARGET, ofp13.OFPXMT_OFB_IPV6_ND_SLL, ofp13.OFPXMT_OFB_IPV6_ND_TLL,
	ofp13.OFPXMT_OFB_MPLS_LABEL, ofp13.OFPXMT_OFB_MPLS_TC, ofp13.OFPXMT_OFB_MPLS_BOS,
	ofp13.OFPXMT_OFB_PBB_ISID, ofp13.OFPXMT_OFB_TUNNEL_ID, ofp13.OFPXMT_OFB_IPV6_EXTHDR,
}

// packOxm builds the OXM for one value of match field code.
func packOxm(code uint32, v, mask schema.Value) (ofp13.OxmField, error) {
	c, ok := oxmCodecs[code]
	if !ok {
		return nil, fmt.Errorf("unknown match field %d", code)
	}
	if !mask.IsValid() {
		return c.pack(v)
	}
	if c.packMasked == nil {
		return nil, fmt.Errorf("match field %s cannot be masked", c.name)
	}
	return c.packMasked(v, mask)
}

// packMatch converts a Match object into a gofc OXM match. A nil object is
// the empty match.
func packMatch(obj *schema.Object) (*ofp13.OfpMatch, error) {
	match := ofp13.NewOfpMatch()
	if obj == nil {
		return match, nil
	}
	for _, code := range matchOrder {
		c := oxmCodecs[code]
		v, ok := obj.Get(c.name)
		if !ok {
			continue
		}
		mask, _ := obj.Get(c.name + "_mask")
		oxm, err := packOxm(code, v, mask)
		if err != nil {
			return nil, fmt.Errorf("match field %s: %v", c.name, err)
		}
		match.Append(oxm)
	}
	return match, nil
}

// oxmValue extracts the value of a decoded OXM, and its mask when present.
func oxmValue(f ofp13.OxmField) (value, mask interface{}, err error) {
	masked := f.OxmHasMask() == 1
	switch t := f.(type) {
	case *ofp13.OxmInPort:
		value = t.Value
	case *ofp13.OxmInPhyPort:
		value = t.Value
	case *ofp13.OxmMetadata:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	case *ofp13.OxmEth:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	case *ofp13.OxmEthType:
		value = t.Value
	case *ofp13.OxmVlanVid:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	case *ofp13.OxmVlanPcp:
		value = t.Value
	case *ofp13.OxmIpDscp:
		value = t.Value
	case *ofp13.OxmIpEcn:
		value = t.Value
	case *ofp13.OxmIpProto:
		value = t.Value
	case *ofp13.OxmIpv4:
		value = t.Value
		if masked {
			mask = net.IP(t.Mask)
		}
	case *ofp13.OxmTcp:
		value = t.Value
	case *ofp13.OxmUdp:
		value = t.Value
	case *ofp13.OxmSctp:
		value = t.Value
	case *ofp13.OxmIcmpType:
		value = t.Value
	case *ofp13.OxmIcmpCode:
		value = t.Value
	case *ofp13.OxmArpOp:
		value = t.Value
	case *ofp13.OxmArpPa:
		value = t.Value
		if masked {
			mask = net.IP(t.Mask)
		}
	case *ofp13.OxmArpHa:
		value = t.Value
	case *ofp13.OxmIpv6:
		value = t.Value
		if masked {
			mask = net.IP(t.Mask)
		}
	case *ofp13.OxmIpv6FLabel:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	case *ofp13.OxmIcmpv6Type:
		value = t.Value
	case *ofp13.OxmIcmpv6Code:
		value = t.Value
	case *ofp13.OxmIpv6NdTarget:
		value = t.Value
	case *ofp13.OxmIpv6NdSll:
		value = t.Value
	case *ofp13.OxmIpv6NdTll:
		value = t.Value
	case *ofp13.OxmMplsLabel:
		value = t.Value
	case *ofp13.OxmMplsTc:
		value = t.Value
	case *ofp13.OxmMplsBos:
		value = t.Value
	case *ofp13.OxmPbbIsid:
		value = uint32(t.Value[0])<<16 | uint32(t.Value[1])<<8 | uint32(t.Value[2])
		if masked {
			mask = uint32(t.Mask[0])<<16 | uint32(t.Mask[1])<<8 | uint32(t.Mask[2])
		}
	case *ofp13.OxmTunnelId:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	case *ofp13.OxmIpv6ExtHeader:
		value = t.Value
		if masked {
			mask = t.Mask
		}
	default:
		return nil, nil, fmt.Errorf("unsupported match field %T", f)
	}
	return value, mask, nil
}

// unpackMatch converts a gofc match into constructor input for a Match
// object.
func unpackMatch(m *ofp13.OfpMatch) (schema.Fields, error) {
	fields := schema.Fields{}
	if m == nil {
		return fields, nil
	}
	for _, f := range m.OxmFields {
		c, ok := oxmCodecs[f.OxmField()]
		if !ok {
			return nil, fmt.Errorf("unknown match field %d", f.OxmField())
		}
		value, mask, err := oxmValue(f)
		if err != nil {
			return nil, err
		}
		fields[c.name] = value
		if mask != nil {
			fields[c.name+"_mask"] = mask
		}
	}
	return fields, nil
}
