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

package flows

import (
	"errors"
	"fmt"
	"testing"
)

func Test_Flow(t *testing.T) {
	tests := []struct {
		name       string
		flow       *Flow
		flowString string
	}{
		{
			name:       "flow, no match with output port",
			flow:       NewFlow().WithTable(0).WithPriority(100).WithAction("output:1"),
			flowString: "table=0 priority=100 actions=output:1",
		},
		{
			name:       "flow, no actions",
			flow:       NewFlow().WithTable(5),
			flowString: "table=5 priority=32768 actions=drop",
		},
		{
			name: "flow, with ipv4 match and output port",
			flow: NewFlow().WithTable(0).WithPriority(100).
				WithMatch("eth_type", "0x800").
				WithMatch("nw_dst", "10.0.0.1").
				WithAction("output:1"),
			flowString: "table=0 priority=100 eth_type=0x800 nw_dst=10.0.0.1 actions=output:1",
		},
		{
			name: "flow, with cookie and timeouts",
			flow: NewFlow().WithTable(10).WithPriority(5).
				WithCookie(0xbeef).
				WithIdleTimeout(30).
				WithHardTimeout(300).
				WithAction("normal"),
			flowString: "table=10 priority=5 cookie=0xbeef idle_timeout=30 hard_timeout=300 actions=normal",
		},
		{
			name: "flow, with ipv4 match, mod datalink destination and output port",
			flow: NewFlow().WithTable(0).WithPriority(100).
				WithMatch("nw_dst", "10.0.0.1").
				WithTargetAction(TargetAction{ActionType: SetField, Source: "aa:bb:cc:dd:ee:ff", Target: "eth_dst"}).
				WithAction("output:1"),
			flowString: "table=0 priority=100 nw_dst=10.0.0.1 actions=set_field:aa:bb:cc:dd:ee:ff->eth_dst,output:1",
		},
		{
			name: "instructions are rendered in ovs-ofctl order",
			flow: NewFlow().WithTable(0).WithPriority(100).
				WithGotoTable(20).
				WithWriteMetadata(0x10, ^uint64(0)).
				WithWriteActions("output:2").
				WithClearActions().
				WithAction("dec_ttl").
				WithMeter(1),
			flowString: "table=0 priority=100 actions=meter:1,dec_ttl,clear_actions,write_actions(output:2),write_metadata:0x10,goto_table:20",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actualFlow := fmt.Sprintf("%s", test.flow)
			if actualFlow != test.flowString {
				t.Logf("actual flow: %q", actualFlow)
				t.Logf("expected flow: %q", test.flowString)
				t.Errorf("flow string did not match")
			}
		})
	}
}

func Test_FlowValidate(t *testing.T) {
	tests := []struct {
		name  string
		flow  *Flow
		valid bool
	}{
		{
			name:  "valid flow",
			flow:  NewFlow().WithTable(0).WithGotoTable(1),
			valid: true,
		},
		{
			name:  "table out of range",
			flow:  NewFlow().WithTable(255),
			valid: false,
		},
		{
			name:  "priority out of range",
			flow:  NewFlow().WithPriority(1 << 16),
			valid: false,
		},
		{
			name:  "goto table backwards",
			flow:  NewFlow().WithTable(10).WithGotoTable(5),
			valid: false,
		},
		{
			name:  "negative timeout",
			flow:  NewFlow().WithIdleTimeout(-1),
			valid: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.flow.Validate()
			if test.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.valid && !errors.Is(err, ErrInvalidFlow) {
				t.Errorf("expected ErrInvalidFlow, got %v", err)
			}
		})
	}
}
