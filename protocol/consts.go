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
	"sync/atomic"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/schema"
)

// OFPVersion is the only wire version this model speaks (OpenFlow 1.3).
const OFPVersion = 0x04

const (
	EtherTypeVLAN     = 0x8100
	EtherTypeQinQ     = 0x88a8
	EtherTypeMPLS     = 0x8847
	EtherTypeMPLSMcst = 0x8848
	EtherTypePBB      = 0x88e7
)

// MaxLen is the default max_len of an output action: send the whole packet.
const MaxLen = 1<<16 - 1

var configFlags = []uint64{
	ofp13.OFPC_FLAG_NORMAL,
	ofp13.OFPC_FLAG_DROP,
	ofp13.OFPC_FLAG_REASM,
	ofp13.OFPC_FLAG_MASK,
}

var xid uint32

// NextXid returns a fresh transaction id. Safe for concurrent use.
func NextXid() uint32 {
	return atomic.AddUint32(&xid, 1)
}

func nextXid() interface{} {
	return NextXid()
}

func helloVersion() interface{} {
	return []byte{OFPVersion}
}

func checkVersion(v schema.Value) error {
	version := v.Bytes()
	if len(version) == 0 || version[0] != OFPVersion {
		return fmt.Errorf("unsupported version %v", version)
	}
	if len(version) > 1 {
		return fmt.Errorf("multiple versions not supported")
	}
	return nil
}
