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
	"testing"
)

func Test_AddFlow(t *testing.T) {
	flows := []*Flow{
		NewFlow().WithTable(0).WithPriority(10).WithAction("output:1"),
		NewFlow().WithTable(0).WithPriority(10).
			WithMatch("eth_type", "0x800").
			WithMatch("nw_dst", "10.0.0.1").
			WithGotoTable(10),
		NewFlow().WithTable(10).WithPriority(15).
			WithMatch("eth_type", "0x800").
			WithMatch("nw_dst", "10.0.0.1").
			WithAction("output:2"),
		NewFlow().WithTable(20).WithPriority(5).
			WithMatch("eth_type", "0x806").
			WithMatch("arp_tpa", "10.0.0.2").
			WithAction("output:5"),
	}

	expectedBufferString := `table=0 priority=10 actions=output:1
table=0 priority=10 eth_type=0x800 nw_dst=10.0.0.1 actions=goto_table:10
table=10 priority=15 eth_type=0x800 nw_dst=10.0.0.1 actions=output:2
table=20 priority=5 eth_type=0x806 arp_tpa=10.0.0.2 actions=output:5
`

	flowsBuffer := NewFlowsBuffer()
	for _, flow := range flows {
		if err := flowsBuffer.AddFlow(flow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := flowsBuffer.AddFlow(NewFlow().WithTable(300)); !errors.Is(err, ErrInvalidFlow) {
		t.Errorf("expected ErrInvalidFlow, got %v", err)
	}

	actualBufferString := flowsBuffer.String()
	if actualBufferString != expectedBufferString {
		t.Logf("actual buffer string: %q", actualBufferString)
		t.Logf("expected buffer string: %q", expectedBufferString)
		t.Errorf("unexpected buffer string")
	}

	flowsBuffer.Reset()
	if flowsBuffer.String() != "" {
		t.Errorf("expected empty buffer after reset")
	}
}

func Test_SyncFlows(t *testing.T) {
	tests := []struct {
		name    string
		ofctl   string
		wantErr bool
	}{
		{
			name:  "command succeeds",
			ofctl: "true",
		},
		{
			name:    "command fails",
			ofctl:   "false",
			wantErr: true,
		},
		{
			name:    "command missing",
			ofctl:   "/nonexistent/ovs-ofctl",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flowsBuffer := NewFlowsBuffer().WithOfctl(test.ofctl).WithProtocol("OpenFlow13")
			if err := flowsBuffer.AddFlow(NewFlow().WithAction("normal")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			err := flowsBuffer.SyncFlows("br0")
			if (err != nil) != test.wantErr {
				t.Errorf("expected error %t, got %v", test.wantErr, err)
			}
		})
	}
}
