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

// Typed multipart requests travel as OFPT_MULTIPART_REQUEST messages; they are
// keyed by their multipart type instead of a message type.
func (d *declarer) multipartRequests() {
	d.declare(request("DescMultipartRequest").Uint16("flags"),
		Encoder.PackDescMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_DESC))

	flowStats := func(name string) *schema.Builder {
		return request(name).
			Uint16("flags").
			Uint8("table_id", schema.Default(ofp13.OFPTT_ALL)).
			Uint32("out_port", schema.Default(uint32(ofp13.OFPP_ANY))).
			Uint32("out_group", schema.Default(uint32(ofp13.OFPG_ANY))).
			Uint64("cookie").Uint64("cookie_mask").
			Object("match", schema.Of(d.match))
	}
	d.declare(flowStats("FlowMultipartRequest"),
		Encoder.PackFlowMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_FLOW))
	d.declare(flowStats("AggregateMultipartRequest"),
		Encoder.PackAggregateMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_AGGREGATE))

	d.declare(request("TableMultipartRequest").Uint16("flags"),
		Encoder.PackTableMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_TABLE))
	d.declare(request("PortMultipartRequest").
		Uint16("flags").
		Uint32("port_no", schema.Default(uint32(ofp13.OFPP_ANY))),
		Encoder.PackPortMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_PORT_STATS))
	d.declare(request("TableFeaturesMultipartRequest").Uint16("flags"),
		Encoder.PackTableFeaturesMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_TABLE_FEATURES))
	d.declare(request("GroupMultipartRequest").
		Uint16("flags").
		Uint32("group_id", schema.Default(uint32(ofp13.OFPG_ALL))),
		Encoder.PackGroupMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_GROUP))
	d.declare(request("GroupDescMultipartRequest").Uint16("flags"),
		Encoder.PackGroupDescMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_GROUP_DESC))
	d.declare(request("PortDescMultipartRequest").Uint16("flags"),
		Encoder.PackPortDescMultipartRequestMsg, multipartRequestKey(ofp13.OFPMP_PORT_DESC))
}

// Multipart reply bodies are the parts of a MultipartReply message.
func (d *declarer) multipartReplies() {
	d.declare(structure("DescMultipartReply").
		Field(schema.Text, []string{"mfr_desc", "hw_desc", "sw_desc", "serial_num", "dp_desc"}),
		nil, multipartReplyKey(ofp13.OFPMP_DESC))

	d.declare(structure("FlowMultipartReply").
		Uint16("length").
		Uint8("table_id", schema.Required()).
		Field(schema.Uint32, []string{"duration_sec", "duration_nsec"}).
		Uint16("priority", schema.Required()).
		Uint16("idle_timeout").Uint16("hard_timeout").
		Uint16("flags").
		Uint64("cookie", schema.Required()).
		Field(schema.Uint64, []string{"packet_count", "byte_count"}).
		Object("match", schema.Of(d.match)).
		List("instructions", schema.Elements(schema.RoleInstruction)),
		nil, multipartReplyKey(ofp13.OFPMP_FLOW))

	d.declare(structure("AggregateMultipartReply").
		Field(schema.Uint64, []string{"packet_count", "byte_count"}, schema.Required()).
		Uint32("flow_count", schema.Required()),
		nil, multipartReplyKey(ofp13.OFPMP_AGGREGATE))

	d.declare(structure("TableMultipartReply").
		Uint8("table_id", schema.Required()).
		Uint32("active_count").
		Field(schema.Uint64, []string{"lookup_count", "matched_count"}),
		nil, multipartReplyKey(ofp13.OFPMP_TABLE))

	d.declare(structure("PortMultipartReply").
		Uint32("port_no", schema.Required()).
		Field(schema.Uint64, []string{
			"rx_packets", "tx_packets", "rx_bytes", "tx_bytes",
			"rx_dropped", "tx_dropped", "rx_errors", "tx_errors",
			"rx_frame_err", "rx_over_err", "rx_crc_err", "collisions",
		}).
		Field(schema.Uint32, []string{"duration_sec", "duration_nsec"}),
		nil, multipartReplyKey(ofp13.OFPMP_PORT_STATS))

	d.declare(structure("TableFeaturesMultipartReply").
		Uint16("length").
		Uint8("table_id", schema.Required()).
		Text("name").
		Field(schema.Uint64, []string{"metadata_match", "metadata_write"}).
		Uint32("config").
		Uint32("max_entries"),
		nil, multipartReplyKey(ofp13.OFPMP_TABLE_FEATURES))

	d.declare(structure("GroupMultipartReply").
		Uint16("length", schema.Required()).
		Field(schema.Uint32, []string{"group_id", "ref_count"}, schema.Required()).
		Field(schema.Uint64, []string{"packet_count", "byte_count"}, schema.Required()).
		Field(schema.Uint32, []string{"duration_sec", "duration_nsec"}, schema.Required()).
		List("bucket_stats", schema.Of(d.counter)),
		nil, multipartReplyKey(ofp13.OFPMP_GROUP))

	d.declare(structure("GroupDescMultipartReply").
		Uint16("length", schema.Required()).
		Uint8("type", schema.Required()).
		Uint32("group_id", schema.Required()).
		List("buckets", schema.Of(d.bucket)),
		nil, multipartReplyKey(ofp13.OFPMP_GROUP_DESC))

	// A port description is a Port; its required fields come from there.
	d.declare(structure("PortDescMultipartReply").Extends(d.port),
		nil, multipartReplyKey(ofp13.OFPMP_PORT_DESC))
}
