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

package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kube-ovs/ofschema/protocol"
	"github.com/kube-ovs/ofschema/schema"
	"k8s.io/klog"
)

// variantKey names the variant of a table. A table whose "type" is not a
// string is a plain field set, so integer "type" fields still decode.
const variantKey = "type"

// FlowFile is a decoded flow declaration file.
type FlowFile struct {
	// Bridge is empty unless the file names one.
	Bridge string
	// Messages holds one object per [[flow]] table, in file order.
	Messages []*schema.Object
}

type rawFlowFile struct {
	Bridge string                   `toml:"bridge"`
	Flows  []map[string]interface{} `toml:"flow"`
}

// LoadFlowFile decodes the [[flow]] tables of a TOML file into message
// objects of m. A flow table without a type is a FlowMod. Nested tables with
// a type become actions, or instructions under an "instructions" key; tables
// without one are handed to the schema as plain field sets.
func LoadFlowFile(path string, m *protocol.Model) (*FlowFile, error) {
	var raw rawFlowFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load flow file: %w", err)
	}

	file := &FlowFile{}
	if meta.IsDefined("bridge") {
		file.Bridge = strings.TrimSpace(raw.Bridge)
	}

	l := &loader{model: m}
	for i, table := range raw.Flows {
		name, fields, err := l.table(table)
		if err != nil {
			return nil, fmt.Errorf("flow %d: %w", i, err)
		}
		if name == "" {
			name = "FlowMod"
		}
		obj, err := m.Construct(schema.RoleMessage, name, fields)
		if err != nil {
			return nil, fmt.Errorf("flow %d: %w", i, err)
		}
		klog.V(5).Infof("loaded %s from %s", obj, path)
		file.Messages = append(file.Messages, obj)
	}
	return file, nil
}

type loader struct {
	model *protocol.Model
}

// roleFor picks the role of variant tables found under key.
func roleFor(key string) schema.Role {
	if key == "instructions" {
		return schema.RoleInstruction
	}
	return schema.RoleAction
}

// table splits a TOML table into its variant name, if any, and its
// converted fields.
func (l *loader) table(t map[string]interface{}) (string, schema.Fields, error) {
	name, _ := t[variantKey].(string)

	fields := make(schema.Fields, len(t))
	for k, v := range t {
		if k == variantKey && name != "" {
			continue
		}
		converted, err := l.value(k, v)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", k, err)
		}
		fields[k] = converted
	}
	return name, fields, nil
}

func (l *loader) value(key string, v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		return l.nested(key, t)
	case []map[string]interface{}:
		items := make([]interface{}, 0, len(t))
		for _, item := range t {
			items = append(items, item)
		}
		return l.list(key, items)
	case []interface{}:
		return l.list(key, t)
	}
	return v, nil
}

func (l *loader) nested(key string, t map[string]interface{}) (interface{}, error) {
	name, fields, err := l.table(t)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return fields, nil
	}
	return l.model.Construct(roleFor(key), name, fields)
}

// list converts every table in items. A list made only of variants becomes
// an object list; anything else keeps its elements as converted.
func (l *loader) list(key string, items []interface{}) (interface{}, error) {
	converted := make([]interface{}, 0, len(items))
	objects := make([]*schema.Object, 0, len(items))
	for _, item := range items {
		v, err := l.value(key, item)
		if err != nil {
			return nil, err
		}
		converted = append(converted, v)
		if obj, ok := v.(*schema.Object); ok {
			objects = append(objects, obj)
		}
	}
	if len(items) > 0 && len(objects) == len(items) {
		return objects, nil
	}
	return converted, nil
}
