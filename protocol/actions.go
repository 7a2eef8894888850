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

func action(name string) *schema.Builder {
	return schema.Declare(name, schema.RoleAction)
}

func (d *declarer) basicActions() {
	d.declare(action("SendOutPort").
		Uint32("port_number", schema.Required(), schema.Alias("port")).
		Uint16("max_len", schema.Default(MaxLen)),
		Encoder.PackSendOutPort, actionKey(ofp13.OFPAT_OUTPUT))

	d.declare(action("CopyTtlOut"), Encoder.PackCopyTtlOut)
	d.declare(action("CopyTtlIn"), Encoder.PackCopyTtlIn)
	d.declare(action("SetMplsTtl").Uint8("mpls_ttl", schema.Required()), Encoder.PackSetMplsTtl)
	d.declare(action("DecMplsTtl"), Encoder.PackDecMplsTtl)

	d.declare(action("PushVlan").
		Uint16("ether_type", schema.Required(), schema.OneOf(EtherTypeVLAN, EtherTypeQinQ)),
		Encoder.PackPushVlan)
	d.declare(action("PopVlan"), Encoder.PackPopVlan)

	mpls := d.declare(action("Mpls").Abstract().
		Uint16("ether_type", schema.Required(), schema.OneOf(EtherTypeMPLS, EtherTypeMPLSMcst)), nil)
	d.declare(action("PushMpls").Extends(mpls), Encoder.PackPushMpls)
	d.declare(action("PopMpls").Extends(mpls), Encoder.PackPopMpls)

	d.declare(action("SetQueue").Uint32("queue_id", schema.Required()), Encoder.PackSetQueue)
	d.declare(action("GroupAction").Uint32("group_id", schema.Required()),
		Encoder.PackGroupAction, actionKey(ofp13.OFPAT_GROUP))
	d.declare(action("SetIpTtl").Uint8("ip_ttl", schema.Required()),
		Encoder.PackSetIpTtl, actionKey(ofp13.OFPAT_SET_NW_TTL))
	d.declare(action("DecIpTtl"), Encoder.PackDecIpTtl, actionKey(ofp13.OFPAT_DEC_NW_TTL))

	d.composite(action("SetField").
		List("action_set", schema.Elements(schema.RoleAction)),
		"action_set")

	d.declare(action("PushPbb").
		Uint16("ether_type", schema.Required(), schema.Default(EtherTypePBB)),
		Encoder.PackPushPbb)
	d.declare(action("PopPbb"), Encoder.PackPopPbb)

	d.declare(action("Experimenter").
		Uint32("experimenter", schema.Required()).
		Bytes("body"),
		Encoder.PackExperimenter)
}
