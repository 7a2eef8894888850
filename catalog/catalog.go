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

// Package catalog exposes the OpenFlow 1.3 protocol constants of gofc by
// name, for registry auto-registration and for symbolic values in flow files.
package catalog

import (
	"sort"
	"strings"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/registry"
)

var constants = registry.MapCatalog{
	// message types
	"OFPT_HELLO":                    ofp13.OFPT_HELLO,
	"OFPT_ERROR":                    ofp13.OFPT_ERROR,
	"OFPT_ECHO_REQUEST":             ofp13.OFPT_ECHO_REQUEST,
	"OFPT_ECHO_REPLY":               ofp13.OFPT_ECHO_REPLY,
	"OFPT_EXPERIMENTER":             ofp13.OFPT_EXPERIMENTER,
	"OFPT_FEATURES_REQUEST":         ofp13.OFPT_FEATURES_REQUEST,
	"OFPT_FEATURES_REPLY":           ofp13.OFPT_FEATURES_REPLY,
	"OFPT_GET_CONFIG_REQUEST":       ofp13.OFPT_GET_CONFIG_REQUEST,
	"OFPT_GET_CONFIG_REPLY":         ofp13.OFPT_GET_CONFIG_REPLY,
	"OFPT_SET_CONFIG":               ofp13.OFPT_SET_CONFIG,
	"OFPT_PACKET_IN":                ofp13.OFPT_PACKET_IN,
	"OFPT_FLOW_REMOVED":             ofp13.OFPT_FLOW_REMOVED,
	"OFPT_PORT_STATUS":              ofp13.OFPT_PORT_STATUS,
	"OFPT_PACKET_OUT":               ofp13.OFPT_PACKET_OUT,
	"OFPT_FLOW_MOD":                 ofp13.OFPT_FLOW_MOD,
	"OFPT_GROUP_MOD":                ofp13.OFPT_GROUP_MOD,
	"OFPT_PORT_MOD":                 ofp13.OFPT_PORT_MOD,
	"OFPT_TABLE_MOD":                ofp13.OFPT_TABLE_MOD,
	"OFPT_MULTIPART_REQUEST":        ofp13.OFPT_MULTIPART_REQUEST,
	"OFPT_MULTIPART_REPLY":          ofp13.OFPT_MULTIPART_REPLY,
	"OFPT_BARRIER_REQUEST":          ofp13.OFPT_BARRIER_REQUEST,
	"OFPT_BARRIER_REPLY":            ofp13.OFPT_BARRIER_REPLY,
	"OFPT_QUEUE_GET_CONFIG_REQUEST": ofp13.OFPT_QUEUE_GET_CONFIG_REQUEST,
	"OFPT_QUEUE_GET_CONFIG_REPLY":   ofp13.OFPT_QUEUE_GET_CONFIG_REPLY,
	"OFPT_ROLE_REQUEST":             ofp13.OFPT_ROLE_REQUEST,
	"OFPT_ROLE_REPLY":               ofp13.OFPT_ROLE_REPLY,
	"OFPT_GET_ASYNC_REQUEST":        ofp13.OFPT_GET_ASYNC_REQUEST,
	"OFPT_GET_ASYNC_REPLY":          ofp13.OFPT_GET_ASYNC_REPLY,
	"OFPT_SET_ASYNC":                ofp13.OFPT_SET_ASYNC,
	"OFPT_METER_MOD":                ofp13.OFPT_METER_MOD,

	// action types
	"OFPAT_OUTPUT":       ofp13.OFPAT_OUTPUT,
	"OFPAT_COPY_TTL_OUT": ofp13.OFPAT_COPY_TTL_OUT,
	"OFPAT_COPY_TTL_IN":  ofp13.OFPAT_COPY_TTL_IN,
	"OFPAT_SET_MPLS_TTL": ofp13.OFPAT_SET_MPLS_TTL,
	"OFPAT_DEC_MPLS_TTL": ofp13.OFPAT_DEC_MPLS_TTL,
	"OFPAT_PUSH_VLAN":    ofp13.OFPAT_PUSH_VLAN,
	"OFPAT_POP_VLAN":     ofp13.OFPAT_POP_VLAN,
	"OFPAT_PUSH_MPLS":    ofp13.OFPAT_PUSH_MPLS,
	"OFPAT_POP_MPLS":     ofp13.OFPAT_POP_MPLS,
	"OFPAT_SET_QUEUE":    ofp13.OFPAT_SET_QUEUE,
	"OFPAT_GROUP":        ofp13.OFPAT_GROUP,
	"OFPAT_SET_NW_TTL":   ofp13.OFPAT_SET_NW_TTL,
	"OFPAT_DEC_NW_TTL":   ofp13.OFPAT_DEC_NW_TTL,
	"OFPAT_SET_FIELD":    ofp13.OFPAT_SET_FIELD,
	"OFPAT_PUSH_PBB":     ofp13.OFPAT_PUSH_PBB,
	"OFPAT_POP_PBB":      ofp13.OFPAT_POP_PBB,
	"OFPAT_EXPERIMENTER": ofp13.OFPAT_EXPERIMENTER,

	// instruction types
	"OFPIT_GOTO_TABLE":     ofp13.OFPIT_GOTO_TABLE,
	"OFPIT_WRITE_METADATA": ofp13.OFPIT_WRITE_METADATA,
	"OFPIT_WRITE_ACTIONS":  ofp13.OFPIT_WRITE_ACTIONS,
	"OFPIT_APPLY_ACTIONS":  ofp13.OFPIT_APPLY_ACTIONS,
	"OFPIT_CLEAR_ACTIONS":  ofp13.OFPIT_CLEAR_ACTIONS,
	"OFPIT_METER":          ofp13.OFPIT_METER,
	"OFPIT_EXPERIMENTER":   ofp13.OFPIT_EXPERIMENTER,

	// match field types
	"OFPXMT_OFB_IN_PORT":        ofp13.OFPXMT_OFB_IN_PORT,
	"OFPXMT_OFB_IN_PHY_PORT":    ofp13.OFPXMT_OFB_IN_PHY_PORT,
	"OFPXMT_OFB_METADATA":       ofp13.OFPXMT_OFB_METADATA,
	"OFPXMT_OFB_ETH_DST":        ofp13.OFPXMT_OFB_ETH_DST,
	"OFPXMT_OFB_ETH_SRC":        ofp13.OFPXMT_OFB_ETH_SRC,
	"OFPXMT_OFB_ETH_TYPE":       ofp13.OFPXMT_OFB_ETH_TYPE,
	"OFPXMT_OFB_VLAN_VID":       ofp13.OFPXMT_OFB_VLAN_VID,
	"OFPXMT_OFB_VLAN_PCP":       ofp13.OFPXMT_OFB_VLAN_PCP,
	"OFPXMT_OFB_IP_DSCP":        ofp13.OFPXMT_OFB_IP_DSCP,
	"OFPXMT_OFB_IP_ECN":         ofp13.OFPXMT_OFB_IP_ECN,
	"OFPXMT_OFB_IP_PROTO":       ofp13.OFPXMT_OFB_IP_PROTO,
	"OFPXMT_OFB_IPV4_SRC":       ofp13.OFPXMT_OFB_IPV4_SRC,
	"OFPXMT_OFB_IPV4_DST":       ofp13.OFPXMT_OFB_IPV4_DST,
	"OFPXMT_OFB_TCP_SRC":        ofp13.OFPXMT_OFB_TCP_SRC,
	"OFPXMT_OFB_TCP_DST":        ofp13.OFPXMT_OFB_TCP_DST,
	"OFPXMT_OFB_UDP_SRC":        ofp13.OFPXMT_OFB_UDP_SRC,
	"OFPXMT_OFB_UDP_DST":        ofp13.OFPXMT_OFB_UDP_DST,
	"OFPXMT_OFB_SCTP_SRC":       ofp13.OFPXMT_OFB_SCTP_SRC,
	"OFPXMT_OFB_SCTP_DST":       ofp13.OFPXMT_OFB_SCTP_DST,
	"OFPXMT_OFB_ICMPV4_TYPE":    ofp13.OFPXMT_OFB_ICMPV4_TYPE,
	"OFPXMT_OFB_ICMPV4_CODE":    ofp13.OFPXMT_OFB_ICMPV4_CODE,
	"OFPXMT_OFB_ARP_OP":         ofp13.OFPXMT_OFB_ARP_OP,
	"OFPXMT_OFB_ARP_SPA":        ofp13.OFPXMT_OFB_ARP_SPA,
	"OFPXMT_OFB_ARP_TPA":        ofp13.OFPXMT_OFB_ARP_TPA,
	"OFPXMT_OFB_ARP_SHA":        ofp13.OFPXMT_OFB_ARP_SHA,
	"OFPXMT_OFB_ARP_THA":        ofp13.OFPXMT_OFB_ARP_THA,
	"OFPXMT_OFB_IPV6_SRC":       ofp13.OFPXMT_OFB_IPV6_SRC,
	"OFPXMT_OFB_IPV6_DST":       ofp13.OFPXMT_OFB_IPV6_DST,
	"OFPXMT_OFB_IPV6_FLABEL":    ofp13.OFPXMT_OFB_IPV6_FLABEL,
	"OFPXMT_OFB_ICMPV6_TYPE":    ofp13.OFPXMT_OFB_ICMPV6_TYPE,
	"OFPXMT_OFB_ICMPV6_CODE":    ofp13.OFPXMT_OFB_ICMPV6_CODE,
	"OFPXMT_OFB_IPV6_ND_TARGET": ofp13.OFPXMT_OFB_IPV6_ND_TARGET,
	"OFPXMT_OFB_IPV6_ND_SLL":    ofp13.OFPXMT_OFB_IPV6_ND_SLL,
	"OFPXMT_OFB_IPV6_ND_TLL":    ofp13.OFPXMT_OFB_IPV6_ND_TLL,
	"OFPXMT_OFB_MPLS_LABEL":     ofp13.OFPXMT_OFB_MPLS_LABEL,
	"OFPXMT_OFB_MPLS_TC":        ofp13.OFPXMT_OFB_MPLS_TC,
	"OFPXMT_OFB_MPLS_BOS":       ofp13.OFPXMT_OFB_MPLS_BOS,
	"OFPXMT_OFB_PBB_ISID":       ofp13.OFPXMT_OFB_PBB_ISID,
	"OFPXMT_OFB_TUNNEL_ID":      ofp13.OFPXMT_OFB_TUNNEL_ID,
	"OFPXMT_OFB_IPV6_EXTHDR":    ofp13.OFPXMT_OFB_IPV6_EXTHDR,

	// multipart types
	"OFPMP_DESC":           ofp13.OFPMP_DESC,
	"OFPMP_FLOW":           ofp13.OFPMP_FLOW,
	"OFPMP_AGGREGATE":      ofp13.OFPMP_AGGREGATE,
	"OFPMP_TABLE":          ofp13.OFPMP_TABLE,
	"OFPMP_PORT_STATS":     ofp13.OFPMP_PORT_STATS,
	"OFPMP_QUEUE":          ofp13.OFPMP_QUEUE,
	"OFPMP_GROUP":          ofp13.OFPMP_GROUP,
	"OFPMP_GROUP_DESC":     ofp13.OFPMP_GROUP_DESC,
	"OFPMP_GROUP_FEATURES": ofp13.OFPMP_GROUP_FEATURES,
	"OFPMP_METER":          ofp13.OFPMP_METER,
	"OFPMP_METER_CONFIG":   ofp13.OFPMP_METER_CONFIG,
	"OFPMP_METER_FEATURES": ofp13.OFPMP_METER_FEATURES,
	"OFPMP_TABLE_FEATURES": ofp13.OFPMP_TABLE_FEATURES,
	"OFPMP_PORT_DESC":      ofp13.OFPMP_PORT_DESC,
	"OFPMP_EXPERIMENTER":   ofp13.OFPMP_EXPERIMENTER,

	// reserved ports
	"OFPP_MAX":        ofp13.OFPP_MAX,
	"OFPP_IN_PORT":    ofp13.OFPP_IN_PORT,
	"OFPP_TABLE":      ofp13.OFPP_TABLE,
	"OFPP_NORMAL":     ofp13.OFPP_NORMAL,
	"OFPP_FLOOD":      ofp13.OFPP_FLOOD,
	"OFPP_ALL":        ofp13.OFPP_ALL,
	"OFPP_CONTROLLER": ofp13.OFPP_CONTROLLER,
	"OFPP_LOCAL":      ofp13.OFPP_LOCAL,
	"OFPP_ANY":        ofp13.OFPP_ANY,

	// flow mod commands
	"OFPFC_ADD":           ofp13.OFPFC_ADD,
	"OFPFC_MODIFY":        ofp13.OFPFC_MODIFY,
	"OFPFC_MODIFY_STRICT": ofp13.OFPFC_MODIFY_STRICT,
	"OFPFC_DELETE":        ofp13.OFPFC_DELETE,
	"OFPFC_DELETE_STRICT": ofp13.OFPFC_DELETE_STRICT,

	// flow mod flags
	"OFPFF_SEND_FLOW_REM": ofp13.OFPFF_SEND_FLOW_REM,
	"OFPFF_CHECK_OVERLAP": ofp13.OFPFF_CHECK_OVERLAP,
	"OFPFF_RESET_COUNTS":  ofp13.OFPFF_RESET_COUNTS,
	"OFPFF_NO_PKT_COUNTS": ofp13.OFPFF_NO_PKT_COUNTS,
	"OFPFF_NO_BYT_COUNTS": ofp13.OFPFF_NO_BYT_COUNTS,

	// group commands
	"OFPGC_ADD":    ofp13.OFPGC_ADD,
	"OFPGC_MODIFY": ofp13.OFPGC_MODIFY,
	"OFPGC_DELETE": ofp13.OFPGC_DELETE,

	// group types
	"OFPGT_ALL":      ofp13.OFPGT_ALL,
	"OFPGT_SELECT":   ofp13.OFPGT_SELECT,
	"OFPGT_INDIRECT": ofp13.OFPGT_INDIRECT,
	"OFPGT_FF":       ofp13.OFPGT_FF,

	// reserved groups
	"OFPG_MAX": ofp13.OFPG_MAX,
	"OFPG_ALL": ofp13.OFPG_ALL,
	"OFPG_ANY": ofp13.OFPG_ANY,

	// table numbers
	"OFPTT_MAX": ofp13.OFPTT_MAX,
	"OFPTT_ALL": ofp13.OFPTT_ALL,

	// config flags
	"OFPC_FLAG_NORMAL": ofp13.OFPC_FLAG_NORMAL,
	"OFPC_FLAG_DROP":   ofp13.OFPC_FLAG_DROP,
	"OFPC_FLAG_REASM":  ofp13.OFPC_FLAG_REASM,
	"OFPC_FLAG_MASK":   ofp13.OFPC_FLAG_MASK,

	// controller max len
	"OFPCML_MAX":       ofp13.OFPCML_MAX,
	"OFPCML_NO_BUFFER": ofp13.OFPCML_NO_BUFFER,

	// controller roles
	"OFPCR_ROLE_NOCHANGE": ofp13.OFPCR_ROLE_NOCHANGE,
	"OFPCR_ROLE_EQUAL":    ofp13.OFPCR_ROLE_EQUAL,
	"OFPCR_ROLE_MASTER":   ofp13.OFPCT_ROLE_MASTER, // misspelled upstream
	"OFPCR_ROLE_SLAVE":    ofp13.OFPCR_ROLE_SLAVE,

	"OFP_NO_BUFFER": ofp13.OFP_NO_BUFFER,
}

// OFP13 returns the OpenFlow 1.3 constant catalog.
func OFP13() registry.Catalog {
	return constants
}

// Names lists every constant sharing prefix, sorted.
func Names(prefix string) []string {
	var names []string
	for name := range constants {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
