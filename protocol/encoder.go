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
	"errors"
	"fmt"

	"github.com/kube-ovs/ofschema/schema"
)

var (
	// ErrNotImplemented is wrapped by every UnimplementedEncoder routine.
	ErrNotImplemented = errors.New("encode routine not implemented")
	// ErrNoEncodeRoutine is returned when encoding a variant that is only
	// ever decoded, such as a reply or a supporting structure.
	ErrNoEncodeRoutine = errors.New("variant has no encode routine")
)

// RoutineError reports which encode routine failed.
type RoutineError struct {
	Routine string
	Err     error
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Routine, e.Err)
}

func (e *RoutineError) Unwrap() error {
	return e.Err
}

// Encoder is the encode collaborator. It exposes one routine per encodable
// variant; a routine receives the gathered field record of one object. The
// routine name is derived from the variant name by RoutineName.
type Encoder interface {
	// Basic actions.
	PackSendOutPort(p schema.Params) error
	PackCopyTtlOut(p schema.Params) error
	PackCopyTtlIn(p schema.Params) error
	PackSetMplsTtl(p schema.Params) error
	PackDecMplsTtl(p schema.Params) error
	PackPushVlan(p schema.Params) error
	PackPopVlan(p schema.Params) error
	PackPushMpls(p schema.Params) error
	PackPopMpls(p schema.Params) error
	PackSetQueue(p schema.Params) error
	PackGroupAction(p schema.Params) error
	PackSetIpTtl(p schema.Params) error
	PackDecIpTtl(p schema.Params) error
	PackPushPbb(p schema.Params) error
	PackPopPbb(p schema.Params) error
	PackExperimenter(p schema.Params) error

	// Flexible actions, each one set-field OXM.
	PackInPort(p schema.Params) error
	PackInPhyPort(p schema.Params) error
	PackMetadata(p schema.Params) error
	PackEthDst(p schema.Params) error
	PackEthSrc(p schema.Params) error
	PackEtherType(p schema.Params) error
	PackVlanVid(p schema.Params) error
	PackVlanPriority(p schema.Params) error
	PackIpDscp(p schema.Params) error
	PackIpEcn(p schema.Params) error
	PackIpProto(p schema.Params) error
	PackIpv4SrcAddr(p schema.Params) error
	PackIpv4DstAddr(p schema.Params) error
	PackTcpSrcPort(p schema.Params) error
	PackTcpDstPort(p schema.Params) error
	PackUdpSrcPort(p schema.Params) error
	PackUdpDstPort(p schema.Params) error
	PackSctpSrcPort(p schema.Params) error
	PackSctpDstPort(p schema.Params) error
	PackIcmpv4Type(p schema.Params) error
	PackIcmpv4Code(p schema.Params) error
	PackArpOp(p schema.Params) error
	PackArpSpa(p schema.Params) error
	PackArpTpa(p schema.Params) error
	PackArpSha(p schema.Params) error
	PackArpTha(p schema.Params) error
	PackIpv6SrcAddr(p schema.Params) error
	PackIpv6DstAddr(p schema.Params) error
	PackIpv6FlowLabel(p schema.Params) error
	PackIcmpv6Type(p schema.Params) error
	PackIcmpv6Code(p schema.Params) error
	PackIpv6NdTarget(p schema.Params) error
	PackIpv6NdSll(p schema.Params) error
	PackIpv6NdTll(p schema.Params) error
	PackMplsLabel(p schema.Params) error
	PackMplsTc(p schema.Params) error
	PackMplsBos(p schema.Params) error
	PackPbbIsid(p schema.Params) error
	PackTunnelId(p schema.Params) error
	PackIpv6Exthdr(p schema.Params) error

	// Instructions.
	PackGotoTableInstruction(p schema.Params) error
	PackWriteMetadataInstruction(p schema.Params) error
	PackWriteActionInstruction(p schema.Params) error
	PackApplyActionInstruction(p schema.Params) error
	PackClearActionInstruction(p schema.Params) error
	PackMeterInstruction(p schema.Params) error
	PackExperimenterInstruction(p schema.Params) error

	// Controller-to-switch messages.
	PackHelloMsg(p schema.Params) error
	PackEchoRequestMsg(p schema.Params) error
	PackEchoReplyMsg(p schema.Params) error
	PackFeaturesRequestMsg(p schema.Params) error
	PackGetConfigRequestMsg(p schema.Params) error
	PackSetConfigMsg(p schema.Params) error
	PackFlowModMsg(p schema.Params) error
	PackPacketOutMsg(p schema.Params) error
	PackGroupModMsg(p schema.Params) error
	PackPortModMsg(p schema.Params) error
	PackTableModMsg(p schema.Params) error
	PackBarrierRequestMsg(p schema.Params) error
	PackRoleRequestMsg(p schema.Params) error
	PackMultipartRequestMsg(p schema.Params) error

	// Multipart requests.
	PackDescMultipartRequestMsg(p schema.Params) error
	PackFlowMultipartRequestMsg(p schema.Params) error
	PackAggregateMultipartRequestMsg(p schema.Params) error
	PackTableMultipartRequestMsg(p schema.Params) error
	PackPortMultipartRequestMsg(p schema.Params) error
	PackTableFeaturesMultipartRequestMsg(p schema.Params) error
	PackGroupMultipartRequestMsg(p schema.Params) error
	PackGroupDescMultipartRequestMsg(p schema.Params) error
	PackPortDescMultipartRequestMsg(p schema.Params) error
}

// UnimplementedEncoder can be embedded by encoders that only handle a subset
// of the variants.
type UnimplementedEncoder struct{}

func unimplemented(routine string) error {
	return &RoutineError{Routine: routine, Err: ErrNotImplemented}
}

func (UnimplementedEncoder) PackSendOutPort(schema.Params) error  { return unimplemented("PackSendOutPort") }
func (UnimplementedEncoder) PackCopyTtlOut(schema.Params) error   { return unimplemented("PackCopyTtlOut") }
func (UnimplementedEncoder) PackCopyTtlIn(schema.Params) error    { return unimplemented("PackCopyTtlIn") }
func (UnimplementedEncoder) PackSetMplsTtl(schema.Params) error   { return unimplemented("PackSetMplsTtl") }
func (UnimplementedEncoder) PackDecMplsTtl(schema.Params) error   { return unimplemented("PackDecMplsTtl") }
func (UnimplementedEncoder) PackPushVlan(schema.Params) error     { return unimplemented("PackPushVlan") }
func (UnimplementedEncoder) PackPopVlan(schema.Params) error      { return unimplemented("PackPopVlan") }
func (UnimplementedEncoder) PackPushMpls(schema.Params) error     { return unimplemented("PackPushMpls") }
func (UnimplementedEncoder) PackPopMpls(schema.Params) error      { return unimplemented("PackPopMpls") }
func (UnimplementedEncoder) PackSetQueue(schema.Params) error     { return unimplemented("PackSetQueue") }
func (UnimplementedEncoder) PackGroupAction(schema.Params) error  { return unimplemented("PackGroupAction") }
func (UnimplementedEncoder) PackSetIpTtl(schema.Params) error     { return unimplemented("PackSetIpTtl") }
func (UnimplementedEncoder) PackDecIpTtl(schema.Params) error     { return unimplemented("PackDecIpTtl") }
func (UnimplementedEncoder) PackPushPbb(schema.Params) error      { return unimplemented("PackPushPbb") }
func (UnimplementedEncoder) PackPopPbb(schema.Params) error       { return unimplemented("PackPopPbb") }
func (UnimplementedEncoder) PackExperimenter(schema.Params) error { return unimplemented("PackExperimenter") }

func (UnimplementedEncoder) PackInPort(schema.Params) error        { return unimplemented("PackInPort") }
func (UnimplementedEncoder) PackInPhyPort(schema.Params) error     { return unimplemented("PackInPhyPort") }
func (UnimplementedEncoder) PackMetadata(schema.Params) error      { return unimplemented("PackMetadata") }
func (UnimplementedEncoder) PackEthDst(schema.Params) error        { return unimplemented("PackEthDst") }
func (UnimplementedEncoder) PackEthSrc(schema.Params) error        { return unimplemented("PackEthSrc") }
func (UnimplementedEncoder) PackEtherType(schema.Params) error     { return unimplemented("PackEtherType") }
func (UnimplementedEncoder) PackVlanVid(schema.Params) error       { return unimplemented("PackVlanVid") }
func (UnimplementedEncoder) PackVlanPriority(schema.Params) error  { return unimplemented("PackVlanPriority") }
func (UnimplementedEncoder) PackIpDscp(schema.Params) error        { return unimplemented("PackIpDscp") }
func (UnimplementedEncoder) PackIpEcn(schema.Params) error         { return unimplemented("PackIpEcn") }
func (UnimplementedEncoder) PackIpProto(schema.Params) error       { return unimplemented("PackIpProto") }
func (UnimplementedEncoder) PackIpv4SrcAddr(schema.Params) error   { return unimplemented("PackIpv4SrcAddr") }
func (UnimplementedEncoder) PackIpv4DstAddr(schema.Params) error   { return unimplemented("PackIpv4DstAddr") }
func (UnimplementedEncoder) PackTcpSrcPort(schema.Params) error    { return unimplemented("PackTcpSrcPort") }
func (UnimplementedEncoder) PackTcpDstPort(schema.Params) error    { return unimplemented("PackTcpDstPort") }
func (UnimplementedEncoder) PackUdpSrcPort(schema.Params) error    { return unimplemented("PackUdpSrcPort") }
func (UnimplementedEncoder) PackUdpDstPort(schema.Params) error    { return unimplemented("PackUdpDstPort") }
func (UnimplementedEncoder) PackSctpSrcPort(schema.Params) error   { return unimplemented("PackSctpSrcPort") }
func (UnimplementedEncoder) PackSctpDstPort(schema.Params) error   { return unimplemented("PackSctpDstPort") }
func (UnimplementedEncoder) PackIcmpv4Type(schema.Params) error    { return unimplemented("PackIcmpv4Type") }
func (UnimplementedEncoder) PackIcmpv4Code(schema.Params) error    { return unimplemented("PackIcmpv4Code") }
func (UnimplementedEncoder) PackArpOp(schema.Params) error         { return unimplemented("PackArpOp") }
func (UnimplementedEncoder) PackArpSpa(schema.Params) error        { return unimplemented("PackArpSpa") }
func (UnimplementedEncoder) PackArpTpa(schema.Params) error        { return unimplemented("PackArpTpa") }
func (UnimplementedEncoder) PackArpSha(schema.Params) error        { return unimplemented("PackArpSha") }
func (UnimplementedEncoder) PackArpTha(schema.Params) error        { return unimplemented("PackArpTha") }
func (UnimplementedEncoder) PackIpv6SrcAddr(schema.Params) error   { return unimplemented("PackIpv6SrcAddr") }
func (UnimplementedEncoder) PackIpv6DstAddr(schema.Params) error   { return unimplemented("PackIpv6DstAddr") }
func (UnimplementedEncoder) PackIpv6FlowLabel(schema.Params) error { return unimplemented("PackIpv6FlowLabel") }
func (UnimplementedEncoder) PackIcmpv6Type(schema.Params) error    { return unimplemented("PackIcmpv6Type") }
func (UnimplementedEncoder) PackIcmpv6Code(schema.Params) error    { return unimplemented("PackIcmpv6Code") }
func (UnimplementedEncoder) PackIpv6NdTarget(schema.Params) error  { return unimplemented("PackIpv6NdTarget") }
func (UnimplementedEncoder) PackIpv6NdSll(schema.Params) error     { return unimplemented("PackIpv6NdSll") }
func (UnimplementedEncoder) PackIpv6NdTll(schema.Params) error     { return unimplemented("PackIpv6NdTll") }
func (UnimplementedEncoder) PackMplsLabel(schema.Params) error     { return unimplemented("PackMplsLabel") }
func (UnimplementedEncoder) PackMplsTc(schema.Params) error        { return unimplemented("PackMplsTc") }
func (UnimplementedEncoder) PackMplsBos(schema.Params) error       { return unimplemented("PackMplsBos") }
func (UnimplementedEncoder) PackPbbIsid(schema.Params) error       { return unimplemented("PackPbbIsid") }
func (UnimplementedEncoder) PackTunnelId(schema.Params) error      { return unimplemented("PackTunnelId") }
func (UnimplementedEncoder) PackIpv6Exthdr(schema.Params) error    { return unimplemented("PackIpv6Exthdr") }

func (UnimplementedEncoder) PackGotoTableInstruction(schema.Params) error     { return unimplemented("PackGotoTableInstruction") }
func (UnimplementedEncoder) PackWriteMetadataInstruction(schema.Params) error { return unimplemented("PackWriteMetadataInstruction") }
func (UnimplementedEncoder) PackWriteActionInstruction(schema.Params) error   { return unimplemented("PackWriteActionInstruction") }
func (UnimplementedEncoder) PackApplyActionInstruction(schema.Params) error   { return unimplemented("PackApplyActionInstruction") }
func (UnimplementedEncoder) PackClearActionInstruction(schema.Params) error   { return unimplemented("PackClearActionInstruction") }
func (UnimplementedEncoder) PackMeterInstruction(schema.Params) error         { return unimplemented("PackMeterInstruction") }
func (UnimplementedEncoder) PackExperimenterInstruction(schema.Params) error  { return unimplemented("PackExperimenterInstruction") }

func (UnimplementedEncoder) PackHelloMsg(schema.Params) error            { return unimplemented("PackHelloMsg") }
func (UnimplementedEncoder) PackEchoRequestMsg(schema.Params) error      { return unimplemented("PackEchoRequestMsg") }
func (UnimplementedEncoder) PackEchoReplyMsg(schema.Params) error        { return unimplemented("PackEchoReplyMsg") }
func (UnimplementedEncoder) PackFeaturesRequestMsg(schema.Params) error  { return unimplemented("PackFeaturesRequestMsg") }
func (UnimplementedEncoder) PackGetConfigRequestMsg(schema.Params) error { return unimplemented("PackGetConfigRequestMsg") }
func (UnimplementedEncoder) PackSetConfigMsg(schema.Params) error        { return unimplemented("PackSetConfigMsg") }
func (UnimplementedEncoder) PackFlowModMsg(schema.Params) error          { return unimplemented("PackFlowModMsg") }
func (UnimplementedEncoder) PackPacketOutMsg(schema.Params) error        { return unimplemented("PackPacketOutMsg") }
func (UnimplementedEncoder) PackGroupModMsg(schema.Params) error         { return unimplemented("PackGroupModMsg") }
func (UnimplementedEncoder) PackPortModMsg(schema.Params) error          { return unimplemented("PackPortModMsg") }
func (UnimplementedEncoder) PackTableModMsg(schema.Params) error         { return unimplemented("PackTableModMsg") }
func (UnimplementedEncoder) PackBarrierRequestMsg(schema.Params) error   { return unimplemented("PackBarrierRequestMsg") }
func (UnimplementedEncoder) PackRoleRequestMsg(schema.Params) error      { return unimplemented("PackRoleRequestMsg") }
func (UnimplementedEncoder) PackMultipartRequestMsg(schema.Params) error { return unimplemented("PackMultipartRequestMsg") }

func (UnimplementedEncoder) PackDescMultipartRequestMsg(schema.Params) error          { return unimplemented("PackDescMultipartRequestMsg") }
func (UnimplementedEncoder) PackFlowMultipartRequestMsg(schema.Params) error          { return unimplemented("PackFlowMultipartRequestMsg") }
func (UnimplementedEncoder) PackAggregateMultipartRequestMsg(schema.Params) error     { return unimplemented("PackAggregateMultipartRequestMsg") }
func (UnimplementedEncoder) PackTableMultipartRequestMsg(schema.Params) error         { return unimplemented("PackTableMultipartRequestMsg") }
func (UnimplementedEncoder) PackPortMultipartRequestMsg(schema.Params) error          { return unimplemented("PackPortMultipartRequestMsg") }
func (UnimplementedEncoder) PackTableFeaturesMultipartRequestMsg(schema.Params) error { return unimplemented("PackTableFeaturesMultipartRequestMsg") }
func (UnimplementedEncoder) PackGroupMultipartRequestMsg(schema.Params) error         { return unimplemented("PackGroupMultipartRequestMsg") }
func (UnimplementedEncoder) PackGroupDescMultipartRequestMsg(schema.Params) error     { return unimplemented("PackGroupDescMultipartRequestMsg") }
func (UnimplementedEncoder) PackPortDescMultipartRequestMsg(schema.Params) error      { return unimplemented("PackPortDescMultipartRequestMsg") }
