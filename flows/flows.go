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

// Package flows renders protocol flow-table objects as ovs-ofctl flow text
// and synchronises them with a bridge.
package flows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
)

// ErrInvalidFlow is wrapped by every Validate failure.
var ErrInvalidFlow = errors.New("invalid flow")

type Action string

const SetField Action = "set_field"

// TargetAction copies or writes Source into the field Target.
type TargetAction struct {
	Source     string
	Target     string
	ActionType Action
}

func (a TargetAction) String() string {
	return fmt.Sprintf("%s:%s->%s", a.ActionType, a.Source, a.Target)
}

// Flow is one ovs-ofctl flow line. Instructions are kept apart so they are
// always rendered in the order ovs-ofctl requires.
type Flow struct {
	table       int
	priority    int
	cookie      uint64
	idleTimeout int
	hardTimeout int

	matches []string

	meter         int
	actions       []string
	clearActions  bool
	writeActions  []string
	writeMetadata string
	gotoTable     int
}

func NewFlow() *Flow {
	return &Flow{priority: ofp13.OFP_DEFAULT_PRIORITY}
}

func (f *Flow) String() string {
	flow := fmt.Sprintf("table=%d priority=%d", f.table, f.priority)

	if f.cookie != 0 {
		flow = fmt.Sprintf("%s cookie=0x%x", flow, f.cookie)
	}

	if f.idleTimeout != 0 {
		flow = fmt.Sprintf("%s idle_timeout=%d", flow, f.idleTimeout)
	}

	if f.hardTimeout != 0 {
		flow = fmt.Sprintf("%s hard_timeout=%d", flow, f.hardTimeout)
	}

	if len(f.matches) > 0 {
		flow = fmt.Sprintf("%s %s", flow, strings.Join(f.matches, " "))
	}

	var actionSet []string
	if f.meter != 0 {
		actionSet = append(actionSet, fmt.Sprintf("meter:%d", f.meter))
	}

	actionSet = append(actionSet, f.actions...)

	if f.clearActions {
		actionSet = append(actionSet, "clear_actions")
	}

	if len(f.writeActions) > 0 {
		actionSet = append(actionSet, fmt.Sprintf("write_actions(%s)", strings.Join(f.writeActions, ",")))
	}

	if f.writeMetadata != "" {
		actionSet = append(actionSet, fmt.Sprintf("write_metadata:%s", f.writeMetadata))
	}

	if f.gotoTable != 0 {
		actionSet = append(actionSet, fmt.Sprintf("goto_table:%d", f.gotoTable))
	}

	if len(actionSet) == 0 {
		actionSet = append(actionSet, "drop")
	}

	return fmt.Sprintf("%s actions=%s", flow, strings.Join(actionSet, ","))
}

// Validate checks the flow against the limits ovs-ofctl enforces.
func (f *Flow) Validate() error {
	if f.table < 0 || f.table > ofp13.OFPTT_MAX {
		return fmt.Errorf("%w: table %d out of range", ErrInvalidFlow, f.table)
	}
	if f.priority < 0 || f.priority > 0xffff {
		return fmt.Errorf("%w: priority %d out of range", ErrInvalidFlow, f.priority)
	}
	if f.idleTimeout < 0 || f.idleTimeout > 0xffff || f.hardTimeout < 0 || f.hardTimeout > 0xffff {
		return fmt.Errorf("%w: timeout out of range", ErrInvalidFlow)
	}
	if f.gotoTable != 0 && f.gotoTable <= f.table {
		return fmt.Errorf("%w: goto_table:%d must follow table %d", ErrInvalidFlow, f.gotoTable, f.table)
	}
	return nil
}

// Flow Matchers
func (f *Flow) WithTable(table int) *Flow {
	f.table = table
	return f
}

func (f *Flow) WithPriority(priority int) *Flow {
	f.priority = priority
	return f
}

func (f *Flow) WithCookie(cookie uint64) *Flow {
	f.cookie = cookie
	return f
}

func (f *Flow) WithIdleTimeout(seconds int) *Flow {
	f.idleTimeout = seconds
	return f
}

func (f *Flow) WithHardTimeout(seconds int) *Flow {
	f.hardTimeout = seconds
	return f
}

func (f *Flow) WithMatch(field, value string) *Flow {
	f.matches = append(f.matches, fmt.Sprintf("%s=%s", field, value))
	return f
}

// Actions
func (f *Flow) WithAction(action string) *Flow {
	f.actions = append(f.actions, action)
	return f
}

func (f *Flow) WithTargetAction(targetAction TargetAction) *Flow {
	return f.WithAction(targetAction.String())
}

// Instructions
func (f *Flow) WithMeter(meter int) *Flow {
	f.meter = meter
	return f
}

func (f *Flow) WithClearActions() *Flow {
	f.clearActions = true
	return f
}

func (f *Flow) WithWriteActions(actions ...string) *Flow {
	f.writeActions = append(f.writeActions, actions...)
	return f
}

func (f *Flow) WithWriteMetadata(metadata, mask uint64) *Flow {
	f.writeMetadata = fmt.Sprintf("0x%x", metadata)
	if mask != ^uint64(0) {
		f.writeMetadata = fmt.Sprintf("%s/0x%x", f.writeMetadata, mask)
	}
	return f
}

func (f *Flow) WithGotoTable(table int) *Flow {
	f.gotoTable = table
	return f
}
