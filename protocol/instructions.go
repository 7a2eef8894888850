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

func instruction(name string) *schema.Builder {
	return schema.Declare(name, schema.RoleInstruction)
}

func (d *declarer) instructions() {
	d.declare(instruction("GotoTable").Uint8("table_id", schema.Required(), schema.Range(0, ofp13.OFPTT_MAX)),
		Encoder.PackGotoTableInstruction)
	d.declare(instruction("WriteMetadata").
		Uint64("metadata", schema.Required()).
		Uint64("metadata_mask", schema.Default(^uint64(0))),
		Encoder.PackWriteMetadataInstruction)

	actions := d.declare(instruction("InstructionAction").Abstract().
		List("actions", schema.Elements(schema.RoleAction)), nil)
	d.declare(instruction("WriteAction").Extends(actions),
		Encoder.PackWriteActionInstruction, instructionKey(ofp13.OFPIT_WRITE_ACTIONS))
	d.declare(instruction("ApplyAction").Extends(actions),
		Encoder.PackApplyActionInstruction, instructionKey(ofp13.OFPIT_APPLY_ACTIONS))
	d.declare(instruction("ClearAction").Extends(actions),
		Encoder.PackClearActionInstruction, instructionKey(ofp13.OFPIT_CLEAR_ACTIONS))

	d.declare(instruction("Meter").Uint32("meter_id", schema.Required()), Encoder.PackMeterInstruction)
	d.declare(instruction("Experimenter").
		Uint32("experimenter", schema.Required()).
		Bytes("user_data"),
		Encoder.PackExperimenterInstruction)
}
