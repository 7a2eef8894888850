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

package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_Lookup(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		found bool
	}{
		{"OFPT_FLOW_MOD", 14, true},
		{"OFPAT_GROUP", 22, true},
		{"OFPAT_SET_NW_TTL", 23, true},
		{"OFPIT_APPLY_ACTIONS", 4, true},
		{"OFPXMT_OFB_ETH_SRC", 4, true},
		{"OFPMP_PORT_DESC", 13, true},
		{"OFPP_CONTROLLER", 0xfffffffd, true},
		{"OFPCR_ROLE_MASTER", 2, true},
		{"OFPAT_DEC_IP_TTL", 0, false},
		{"OFPXMT_OFB_ALL", 0, false},
	}

	c := OFP13()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, ok := c.Lookup(test.name)
			if ok != test.found {
				t.Fatalf("expected found=%v, got %v", test.found, ok)
			}
			if v != test.value {
				t.Errorf("expected %d, got %d", test.value, v)
			}
		})
	}
}

func Test_Names(t *testing.T) {
	want := []string{"OFPGT_ALL", "OFPGT_FF", "OFPGT_INDIRECT", "OFPGT_SELECT"}
	if diff := cmp.Diff(want, Names("OFPGT_")); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}
