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

// request starts a controller-to-switch message. Its transaction id is drawn
// from NextXid unless supplied.
func request(name string) *schema.Builder {
	return schema.Declare(name, schema.RoleMessage).
		Uint32("transaction_id", schema.Alias("xid"), schema.DefaultFunc(nextXid))
}

// reply starts a switch-to-controller message.
func reply(name string) *schema.Builder {
	return schema.Declare(name, schema.RoleMessage).
		Uint64("datapath_id").
		Uint32("transaction_id", schema.Alias("xid"))
}

func (d *declarer) messages() {
	d.declare(request("Hello").
		Bytes("version", schema.Required(), schema.DefaultFunc(helloVersion), schema.Validate(checkVersion)),
		Encoder.PackHelloMsg)
	d.declare(request("EchoRequest").Bytes("body"), Encoder.PackEchoRequestMsg)
	d.declare(request("EchoReply").Bytes("body"), Encoder.PackEchoReplyMsg)
	d.declare(request("FeaturesRequest"), Encoder.PackFeaturesRequestMsg)
	d.declare(request("GetConfigRequest"), Encoder.PackGetConfigRequestMsg)
	d.declare(request("SetConfig").
		Uint16("flags", schema.Default(ofp13.OFPC_FLAG_NORMAL), schema.OneOf(configFlags...)).
		Uint16("miss_send_len", schema.Required()),
		Encoder.PackSetConfigMsg)

	d.declare(request("FlowMod").
		Uint64("cookie").Uint64("cookie_mask").
		Uint8("table_id").
		Uint8("command", schema.Default(ofp13.OFPFC_ADD), schema.Range(ofp13.OFPFC_ADD, ofp13.OFPFC_DELETE_STRICT)).
		Uint16("idle_timeout").Uint16("hard_timeout").
		Uint16("priority", schema.Default(ofp13.OFP_DEFAULT_PRIORITY)).
		Uint32("buffer_id", schema.Default(uint32(ofp13.OFP_NO_BUFFER))).
		Uint32("out_port", schema.Default(uint32(ofp13.OFPP_ANY))).
		Uint32("out_group", schema.Default(uint32(ofp13.OFPG_ANY))).
		Uint16("flags").
		Object("match", schema.Of(d.match)).
		List("instructions", schema.Elements(schema.RoleInstruction)),
		Encoder.PackFlowModMsg)

	d.declare(request("PacketOut").
		Uint32("buffer_id", schema.Default(uint32(ofp13.OFP_NO_BUFFER))).
		Uint32("in_port", schema.Default(uint32(ofp13.OFPP_CONTROLLER))).
		List("actions", schema.Elements(schema.RoleAction)).
		Bytes("raw_data", schema.Alias("data")),
		Encoder.PackPacketOutMsg)

	d.declare(request("GroupMod").
		Uint16("command", schema.Default(ofp13.OFPGC_ADD), schema.Range(ofp13.OFPGC_ADD, ofp13.OFPGC_DELETE)).
		Uint8("type", schema.Default(ofp13.OFPGT_ALL), schema.Range(ofp13.OFPGT_ALL, ofp13.OFPGT_FF)).
		Uint32("group_id", schema.Required(), schema.Range(0, ofp13.OFPG_MAX)).
		List("buckets", schema.Of(d.bucket)),
		Encoder.PackGroupModMsg)

	d.declare(request("PortMod").
		Uint32("port_no", schema.Required()).
		MAC("hw_addr", schema.Required()).
		Uint32("config").Uint32("mask").Uint32("advertise"),
		Encoder.PackPortModMsg)

	d.declare(request("TableMod").
		Uint8("table_id", schema.Default(ofp13.OFPTT_ALL)).
		Uint32("config"),
		Encoder.PackTableModMsg)

	d.declare(request("BarrierRequest"), Encoder.PackBarrierRequestMsg)

	d.declare(request("RoleRequest").
		Uint32("role", schema.Required(), schema.Range(ofp13.OFPCR_ROLE_NOCHANGE, ofp13.OFPCR_ROLE_SLAVE)).
		Uint64("generation_id"),
		Encoder.PackRoleRequestMsg)

	d.declare(request("MultipartRequest").
		Uint16("type", schema.Required()).
		Uint16("flags"),
		Encoder.PackMultipartRequestMsg)

	// Messages below are only ever decoded.
	d.declare(reply("FeaturesReply").
		Uint32("n_buffers").
		Uint8("n_tables").
		Uint8("auxiliary_id").
		Uint32("capabilities"),
		nil)
	d.declare(reply("GetConfigReply").
		Uint16("flags").
		Uint16("miss_send_len"),
		nil)
	d.declare(reply("PacketIn").
		Uint32("buffer_id").
		Uint16("total_len").
		Uint8("reason").
		Uint8("table_id").
		Uint64("cookie").
		Object("match", schema.Of(d.match)).
		Bytes("data").
		Object("packet_info", schema.Of(d.info)),
		nil)
	d.declare(reply("PortStatus").
		Uint8("reason", schema.Range(ofp13.OFPPR_ADD, ofp13.OFPPR_MODIFY)).
		Object("desc", schema.Of(d.port)),
		nil)
	d.declare(schema.Declare("FlowRemoved", schema.RoleMessage).
		Uint64("datapath_id", schema.Required()).
		Uint32("transaction_id", schema.Required(), schema.Alias("xid")).
		Uint64("cookie", schema.Required()).
		Uint16("priority", schema.Required()).
		Field(schema.Uint8, []string{"reason", "table_id"}, schema.Required()).
		Field(schema.Uint32, []string{"duration_sec", "duration_nsec"}, schema.Required()).
		Field(schema.Uint16, []string{"idle_timeout", "hard_timeout"}, schema.Required()).
		Field(schema.Uint64, []string{"packet_count", "byte_count"}, schema.Required()).
		Object("match", schema.Of(d.match)),
		nil)
	d.declare(reply("Error").
		Uint16("type", schema.Required()).
		Uint16("code", schema.Required()).
		Bytes("data"),
		nil)
	d.declare(reply("BarrierReply"), nil)
	d.declare(reply("RoleReply").
		Uint32("role").
		Uint64("generation_id"),
		nil)
	d.declare(reply("MultipartReply").
		Uint16("type").
		Uint16("flags").
		List("parts"),
		nil)
}
