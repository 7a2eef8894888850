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

package connection

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/kube-ovs/ofschema/protocol"
	"github.com/kube-ovs/ofschema/registry"
	"github.com/kube-ovs/ofschema/schema"

	"k8s.io/klog"
)

// ErrUnregistered is returned when a nested action, instruction or match
// field carries a code no variant is registered under. An unregistered
// top-level message is not an error; see Decoded.
var ErrUnregistered = errors.New("no variant registered")

// Decoded is the outcome of decoding one message. When no variant is
// registered under the message type, Registered is false and Object is nil.
type Decoded struct {
	Object     *schema.Object
	Family     registry.Family
	Code       uint64
	Registered bool
}

// Decoder turns gofc messages received from one datapath back into protocol
// objects, resolving every wire code through the model's registry.
type Decoder struct {
	model      *protocol.Model
	datapathID uint64
}

func NewDecoder(m *protocol.Model, datapathID uint64) *Decoder {
	return &Decoder{model: m, datapathID: datapathID}
}

// Decode decodes one complete message. The message type is resolved before
// parsing so that unregistered types never reach the parser.
func (d *Decoder) Decode(buf []byte) (*Decoded, error) {
	if _, err := MessageLength(buf); err != nil {
		return nil, err
	}
	code := uint64(buf[1])
	if _, ok := d.model.Lookup(registry.MessageType, code); !ok {
		klog.V(4).Infof("no variant registered for %s %d", registry.MessageType, code)
		return &Decoded{Family: registry.MessageType, Code: code}, nil
	}

	msg, err := ParseMessage(buf)
	if err != nil {
		return nil, err
	}
	return d.DecodeMessage(msg)
}

// DecodeMessage decodes an already parsed message.
func (d *Decoder) DecodeMessage(msg ofp13.OFMessage) (*Decoded, error) {
	t, fields, err := d.messageFields(msg)
	if err != nil {
		return nil, err
	}

	decoded := &Decoded{Family: registry.MessageType, Code: uint64(t)}
	s, ok := d.model.Lookup(registry.MessageType, decoded.Code)
	if !ok {
		klog.V(4).Infof("no variant registered for %s %d", registry.MessageType, t)
		return decoded, nil
	}
	if _, ok := fields["datapath_id"]; !ok {
		fields["datapath_id"] = d.datapathID
	}

	obj, err := schema.Construct(s, fields)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Name(), err)
	}
	klog.V(5).Infof("decoded %s", obj)

	decoded.Object = obj
	decoded.Registered = true
	return decoded, nil
}

func (d *Decoder) messageFields(msg ofp13.OFMessage) (uint8, schema.Fields, error) {
	switch m := msg.(type) {
	case *ofp13.OfpHello:
		return ofp13.OFPT_HELLO, schema.Fields{
			"transaction_id": m.Header.Xid,
			"version":        []byte{m.Header.Version},
		}, nil
	case *echoMessage:
		return m.Header.Type, schema.Fields{
			"transaction_id": m.Header.Xid,
			"body":           m.Body,
		}, nil
	case *ofp13.OfpHeader:
		return m.Type, schema.Fields{"transaction_id": m.Xid}, nil
	case *ofp13.OfpSwitchFeatures:
		return m.Header.Type, schema.Fields{
			"transaction_id": m.Header.Xid,
			"datapath_id":    m.DatapathId,
			"n_buffers":      m.NBuffers,
			"n_tables":       m.NTables,
			"auxiliary_id":   m.AuxiliaryId,
			"capabilities":   m.Capabilities,
		}, nil
	case *ofp13.OfpSwitchConfig:
		return m.Header.Type, schema.Fields{
			"transaction_id": m.Header.Xid,
			"flags":          m.Flags,
			"miss_send_len":  m.MissSendLen,
		}, nil
	case *ofp13.OfpPacketIn:
		match, err := unpackMatch(m.Match)
		if err != nil {
			return 0, nil, err
		}
		fields := schema.Fields{
			"transaction_id": m.Header.Xid,
			"buffer_id":      m.BufferId,
			"total_len":      m.TotalLen,
			"reason":         m.Reason,
			"table_id":       m.TableId,
			"cookie":         m.Cookie,
			"match":          match,
			"data":           m.Data,
		}
		if info, ok := d.model.Schema(schema.RoleNone, "PacketInfo"); ok && len(m.Data) > 0 {
			obj, err := PacketInfo(info, m.Data)
			if err != nil {
				klog.V(4).Infof("could not parse packet-in payload: %v", err)
			} else {
				fields["packet_info"] = obj
			}
		}
		return ofp13.OFPT_PACKET_IN, fields, nil
	case *ofp13.OfpFlowRemoved:
		match, err := unpackMatch(m.Match)
		if err != nil {
			return 0, nil, err
		}
		return ofp13.OFPT_FLOW_REMOVED, schema.Fields{
			"transaction_id": m.Header.Xid,
			"cookie":         m.Cookie,
			"priority":       m.Priority,
			"reason":         m.Reason,
			"table_id":       m.TableId,
			"duration_sec":   m.DurationSec,
			"duration_nsec":  m.DurationNSec,
			"idle_timeout":   m.IdleTimeout,
			"hard_timeout":   m.HardTimeout,
			"packet_count":   m.PacketCount,
			"byte_count":     m.ByteCount,
			"match":          match,
		}, nil
	case *ofp13.OfpPortStatus:
		fields := schema.Fields{
			"transaction_id": m.Header.Xid,
			"reason":         m.Reason,
		}
		if m.Desc != nil {
			fields["desc"] = portFields(m.Desc)
		}
		return ofp13.OFPT_PORT_STATUS, fields, nil
	case *ofp13.OfpErrorMsg:
		return ofp13.OFPT_ERROR, schema.Fields{
			"transaction_id": m.Header.Xid,
			"type":           m.Type,
			"code":           m.Code,
			"data":           m.Data,
		}, nil
	case *ofp13.OfpRole:
		return m.Header.Type, schema.Fields{
			"transaction_id": m.Header.Xid,
			"role":           m.Role,
			"generation_id":  m.GenerationId,
		}, nil
	case *ofp13.OfpMultipartReply:
		parts, err := d.multipartParts(m.Body)
		if err != nil {
			return 0, nil, err
		}
		return ofp13.OFPT_MULTIPART_REPLY, schema.Fields{
			"transaction_id": m.Header.Xid,
			"type":           m.Type,
			"flags":          m.Flags,
			"parts":          parts,
		}, nil
	}
	return 0, nil, fmt.Errorf("%w: %T", ErrUnsupportedMessage, msg)
}

func text(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func portFields(p *ofp13.OfpPort) schema.Fields {
	return schema.Fields{
		"port_no":    p.PortNo,
		"hw_addr":    p.HwAddr,
		"name":       text(p.Name),
		"config":     p.Config,
		"state":      p.State,
		"curr":       p.Curr,
		"advertised": p.Advertised,
		"supported":  p.Supported,
		"peer":       p.Peer,
		"curr_speed": p.CurrSpeed,
		"max_speed":  p.MaxSpeed,
	}
}

// multipartParts decodes the bodies of a multipart reply. Bodies of an
// unregistered multipart type are skipped.
func (d *Decoder) multipartParts(bodies []ofp13.OfpMultipartBody) ([]*schema.Object, error) {
	parts := make([]*schema.Object, 0, len(bodies))
	for _, body := range bodies {
		code := uint64(body.MPType())
		s, ok := d.model.Lookup(registry.MultipartReplyType, code)
		if !ok {
			klog.V(4).Infof("no variant registered for %s %d, skipping body", registry.MultipartReplyType, code)
			continue
		}

		fields, err := d.bodyFields(body)
		if err != nil {
			return nil, err
		}
		obj, err := schema.Construct(s, fields)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.Name(), err)
		}
		parts = append(parts, obj)
	}
	return parts, nil
}

func (d *Decoder) bodyFields(body ofp13.OfpMultipartBody) (schema.Fields, error) {
	switch b := body.(type) {
	case *ofp13.OfpDescStats:
		return schema.Fields{
			"mfr_desc":   text(b.MfrDesc),
			"hw_desc":    text(b.HwDesc),
			"sw_desc":    text(b.SwDesc),
			"serial_num": text(b.SerialNum),
			"dp_desc":    text(b.DpDesc),
		}, nil
	case *ofp13.OfpFlowStats:
		match, err := unpackMatch(b.Match)
		if err != nil {
			return nil, err
		}
		instructions, err := d.decodeInstructions(b.Instructions)
		if err != nil {
			return nil, err
		}
		return schema.Fields{
			"length":        b.Length,
			"table_id":      b.TableId,
			"duration_sec":  b.DurationSec,
			"duration_nsec": b.DurationNSec,
			"priority":      b.Priority,
			"idle_timeout":  b.IdleTimeout,
			"hard_timeout":  b.HardTimeout,
			"flags":         b.Flags,
			"cookie":        b.Cookie,
			"packet_count":  b.PacketCount,
			"byte_count":    b.ByteCount,
			"match":         match,
			"instructions":  instructions,
		}, nil
	case *ofp13.OfpAggregateStats:
		return schema.Fields{
			"packet_count": b.PacketCount,
			"byte_count":   b.ByteCount,
			"flow_count":   b.FlowCount,
		}, nil
	case *ofp13.OfpTableStats:
		return schema.Fields{
			"table_id":      b.TableId,
			"active_count":  b.ActiveCount,
			"lookup_count":  b.LookupCount,
			"matched_count": b.MatchedCount,
		}, nil
	case *ofp13.OfpPortStats:
		return schema.Fields{
			"port_no":       b.PortNo,
			"rx_packets":    b.RxPackets,
			"tx_packets":    b.TxPackets,
			"rx_bytes":      b.RxBytes,
			"tx_bytes":      b.TxBytes,
			"rx_dropped":    b.RxDropped,
			"tx_dropped":    b.TxDropped,
			"rx_errors":     b.RxErrors,
			"tx_errors":     b.TxErrors,
			"rx_frame_err":  b.RxFrameErr,
			"rx_over_err":   b.RxOverErr,
			"rx_crc_err":    b.RxCrcErr,
			"collisions":    b.Collisions,
			"duration_sec":  b.DurationSec,
			"duration_nsec": b.DurationNSec,
		}, nil
	case *ofp13.OfpTableFeatures:
		return schema.Fields{
			"length":         b.Length,
			"table_id":       b.TableId,
			"name":           text(b.Name),
			"metadata_match": b.MetadataMatch,
			"metadata_write": b.MetadataWrite,
			"config":         b.Config,
			"max_entries":    b.MaxEntries,
		}, nil
	case *ofp13.OfpGroupStats:
		counters := make([]interface{}, 0, len(b.BucketStats))
		for _, c := range b.BucketStats {
			counters = append(counters, schema.Fields{
				"packet_count": c.PacketCount,
				"byte_count":   c.ByteCount,
			})
		}
		return schema.Fields{
			"length":        b.Length,
			"group_id":      b.GroupId,
			"ref_count":     b.RefCount,
			"packet_count":  b.PacketCount,
			"byte_count":    b.ByteCount,
			"duration_sec":  b.DurationSec,
			"duration_nsec": b.DurationNSec,
			"bucket_stats":  counters,
		}, nil
	case *ofp13.OfpGroupDescStats:
		buckets := make([]interface{}, 0, len(b.Buckets))
		for _, bucket := range b.Buckets {
			actions, err := d.decodeActions(bucket.Actions)
			if err != nil {
				return nil, err
			}
			buckets = append(buckets, schema.Fields{
				"weight":      bucket.Weight,
				"watch_port":  bucket.WatchPort,
				"watch_group": bucket.WatchGroup,
				"actions":     actions,
			})
		}
		return schema.Fields{
			"length":   b.Length,
			"type":     b.Type,
			"group_id": b.GroupId,
			"buckets":  buckets,
		}, nil
	case *ofp13.OfpPort:
		return portFields(b), nil
	}
	return nil, fmt.Errorf("unsupported multipart body %T", body)
}

func (d *Decoder) decodeActions(actions []ofp13.OfpAction) ([]*schema.Object, error) {
	objs := make([]*schema.Object, 0, len(actions))
	for _, a := range actions {
		obj, err := d.DecodeAction(a)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (d *Decoder) decodeInstructions(instructions []ofp13.OfpInstruction) ([]*schema.Object, error) {
	objs := make([]*schema.Object, 0, len(instructions))
	for _, i := range instructions {
		obj, err := d.DecodeInstruction(i)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// DecodeAction resolves a gofc action through the action-type family. A
// set-field action resolves its OXM through the match-field family and comes
// back as a SetField holding that one flexible action.
func (d *Decoder) DecodeAction(a ofp13.OfpAction) (*schema.Object, error) {
	code := uint64(a.OfpActionType())
	s, ok := d.model.Lookup(registry.ActionType, code)
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrUnregistered, registry.ActionType, code)
	}

	var fields schema.Fields
	switch t := a.(type) {
	case *ofp13.OfpActionOutput:
		fields = schema.Fields{"port_number": t.Port, "max_len": t.MaxLen}
	case *ofp13.OfpActionSetMplsTtl:
		fields = schema.Fields{"mpls_ttl": t.MplsTtl}
	case *ofp13.OfpActionPush:
		fields = schema.Fields{"ether_type": t.EtherType}
	case *ofp13.OfpActionPop:
		fields = schema.Fields{"ether_type": t.EtherType}
	case *ofp13.OfpActionGroup:
		fields = schema.Fields{"group_id": t.GroupId}
	case *ofp13.OfpActionSetQueue:
		fields = schema.Fields{"queue_id": t.QueueId}
	case *ofp13.OfpActionSetNwTtl:
		fields = schema.Fields{"ip_ttl": t.NwTtl}
	case *ofp13.OfpActionExperimenter:
		fields = schema.Fields{"experimenter": t.Experimenter}
	case *ofp13.OfpActionSetField:
		flexible, err := d.decodeSetField(t.Oxm)
		if err != nil {
			return nil, err
		}
		fields = schema.Fields{"action_set": []*schema.Object{flexible}}
	}
	return schema.Construct(s, fields)
}

func (d *Decoder) decodeSetField(oxm ofp13.OxmField) (*schema.Object, error) {
	if oxm == nil {
		return nil, errors.New("set-field action without a match field")
	}
	code := uint64(oxm.OxmField())
	s, ok := d.model.Lookup(registry.MatchFieldType, code)
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrUnregistered, registry.MatchFieldType, code)
	}
	value, _, err := oxmValue(oxm)
	if err != nil {
		return nil, err
	}
	return schema.Construct(s, value)
}

// DecodeInstruction resolves a gofc instruction through the instruction-type
// family.
func (d *Decoder) DecodeInstruction(i ofp13.OfpInstruction) (*schema.Object, error) {
	code := uint64(i.InstructionType())
	s, ok := d.model.Lookup(registry.InstructionType, code)
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrUnregistered, registry.InstructionType, code)
	}

	var fields schema.Fields
	switch t := i.(type) {
	case *ofp13.OfpInstructionGotoTable:
		fields = schema.Fields{"table_id": t.TableId}
	case *ofp13.OfpInstructionWriteMetadata:
		fields = schema.Fields{"metadata": t.Metadata, "metadata_mask": t.MetadataMask}
	case *ofp13.OfpInstructionActions:
		actions, err := d.decodeActions(t.Actions)
		if err != nil {
			return nil, err
		}
		fields = schema.Fields{"actions": actions}
	case *ofp13.OfpInstructionMeter:
		fields = schema.Fields{"meter_id": t.MeterId}
	case *ofp13.OfpInstructionExperimenter:
		fields = schema.Fields{"experimenter": t.Experimenter}
	}
	return schema.Construct(s, fields)
}
