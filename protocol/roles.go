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
	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"
)

var roleFamilies = map[schema.Role][]registry.Family{
	schema.RoleMessage:     {registry.MessageType},
	schema.RoleAction:      {registry.ActionType, registry.MatchFieldType},
	schema.RoleInstruction: {registry.InstructionType},
}

// Families lists the families a schema of role r may auto-register in.
// Supporting structures are never auto-registered.
func Families(r schema.Role) []registry.Family {
	return append([]registry.Family(nil), roleFamilies[r]...)
}

// RoutineName is the Encoder method encoding objects of s.
func RoutineName(s *schema.Schema) string {
	switch s.Role() {
	case schema.RoleMessage:
		return "Pack" + s.Name() + "Msg"
	case schema.RoleInstruction:
		return "Pack" + s.Name() + "Instruction"
	case schema.RoleAction:
		return "Pack" + s.Name()
	}
	return ""
}
