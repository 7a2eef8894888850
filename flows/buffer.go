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
	"bytes"
	"fmt"
	"os/exec"
	"time"

	"k8s.io/klog"
)

const (
	defaultOfctl    = "ovs-ofctl"
	defaultProtocol = "OpenFlow13"
)

type FlowsBuffer struct {
	buffer   *bytes.Buffer
	ofctl    string
	protocol string
}

func NewFlowsBuffer() *FlowsBuffer {
	buffer := bytes.NewBuffer(nil)

	return &FlowsBuffer{
		buffer:   buffer,
		ofctl:    defaultOfctl,
		protocol: defaultProtocol,
	}
}

// WithOfctl sets the ovs-ofctl binary SyncFlows runs.
func (f *FlowsBuffer) WithOfctl(path string) *FlowsBuffer {
	f.ofctl = path
	return f
}

// WithProtocol sets the ovs-ofctl -O argument.
func (f *FlowsBuffer) WithProtocol(protocol string) *FlowsBuffer {
	f.protocol = protocol
	return f
}

func (f *FlowsBuffer) AddFlow(flow *Flow) error {
	if err := flow.Validate(); err != nil {
		return err
	}
	f.buffer.WriteString(flow.String())
	f.buffer.WriteByte('\n')
	return nil
}

func (f *FlowsBuffer) String() string {
	return f.buffer.String()
}

func (f *FlowsBuffer) Reset() {
	f.buffer.Reset()
}

// SyncFlows replaces every flow on bridge with the buffered ones.
func (f *FlowsBuffer) SyncFlows(bridge string) error {
	startTime := time.Now()

	commands := []string{
		"-O", f.protocol,
		"replace-flows", bridge, "-",
	}

	cmd := exec.Command(f.ofctl, commands...)
	cmd.Stdin = bytes.NewReader(f.buffer.Bytes())

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to sync flows: %v, out: %q", err, string(out))
	}

	klog.V(5).Infof("replace-flow took %s", time.Since(startTime).String())
	return nil
}
