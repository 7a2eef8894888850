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
	"fmt"

	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"
)

// Load declares every OpenFlow 1.3 variant against catalog c and freezes the
// result. A declaration error, such as two variants claiming the same wire
// code, aborts the whole load.
func Load(c registry.Catalog) (*Model, error) {
	m := NewModel(c)
	if err := declareAll(m); err != nil {
		return nil, err
	}
	m.Freeze()
	return m, nil
}

func declareAll(m *Model) error {
	d := &declarer{m: m}
	d.flexibleActions()
	d.basicActions()
	d.instructions()
	d.structures()
	d.messages()
	d.multipartRequests()
	d.multipartReplies()
	return d.err
}

// declarer runs declarations in order and keeps the first error. Once an
// error is recorded the remaining declarations are skipped.
type declarer struct {
	m   *Model
	err error

	flexible *schema.Schema
	match    *schema.Schema
	bucket   *schema.Schema
	counter  *schema.Schema
	port     *schema.Schema
	info     *schema.Schema
}

func (d *declarer) declare(b *schema.Builder, encode EncodeFunc, keys ...registry.Key) *schema.Schema {
	if d.err != nil {
		return nil
	}
	s, err := d.m.Declare(b, encode, keys...)
	if err != nil {
		d.err = fmt.Errorf("declaring %s: %w", b.Name(), err)
		return nil
	}
	return s
}

func (d *declarer) composite(b *schema.Builder, field string, keys ...registry.Key) *schema.Schema {
	if d.err != nil {
		return nil
	}
	s, err := d.m.DeclareComposite(b, field, keys...)
	if err != nil {
		d.err = fmt.Errorf("declaring %s: %w", b.Name(), err)
		return nil
	}
	return s
}

func actionKey(code uint64) registry.Key {
	return registry.Key{Family: registry.ActionType, Code: code}
}

func matchFieldKey(code uint64) registry.Key {
	return registry.Key{Family: registry.MatchFieldType, Code: code}
}

func instructionKey(code uint64) registry.Key {
	return registry.Key{Family: registry.InstructionType, Code: code}
}

func multipartRequestKey(code uint64) registry.Key {
	return registry.Key{Family: registry.MultipartRequestType, Code: code}
}

func multipartReplyKey(code uint64) registry.Key {
	return registry.Key{Family: registry.MultipartReplyType, Code: code}
}

func ipv4Only(v schema.Value) error {
	if v.IP().To4() == nil {
		return fmt.Errorf("%s is not an IPv4 address", v.IP())
	}
	return nil
}

func ipv6Only(v schema.Value) error {
	if v.IP().To4() != nil {
		return fmt.Errorf("%s is not an IPv6 address", v.IP())
	}
	return nil
}
