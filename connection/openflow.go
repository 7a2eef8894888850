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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
)

// HeaderLen is the size of the fixed OpenFlow header every message starts with.
const HeaderLen = 8

var (
	ErrShortMessage       = errors.New("message shorter than its header")
	ErrUnsupportedMessage = errors.New("message type cannot be parsed")
)

func SerializeMessage(msg ofp13.OFMessage) []byte {
	return msg.Serialize()
}

// ParseMessage parses one complete message. Echo and get-config replies are
// parsed here since gofc drops their bodies.
func ParseMessage(buf []byte) (ofp13.OFMessage, error) {
	n, err := MessageLength(buf)
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		return nil, fmt.Errorf("%w: header claims %d bytes, have %d", ErrShortMessage, n, len(buf))
	}
	buf = buf[:n]

	var msg ofp13.OFMessage
	switch buf[1] {
	case ofp13.OFPT_ECHO_REQUEST, ofp13.OFPT_ECHO_REPLY:
		msg = new(echoMessage)
		msg.Parse(buf)
	case ofp13.OFPT_GET_CONFIG_REPLY:
		msg = new(ofp13.OfpSwitchConfig)
		msg.Parse(buf)
	default:
		msg = ofp13.Parse(buf)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedMessage, buf[1])
	}
	return msg, nil
}

// MessageLength returns the total message length announced by the header.
func MessageLength(buf []byte) (int, error) {
	if len(buf) < HeaderLen {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(buf))
	}
	// Length attribute in OFP header is uint16 read in BigEndian
	// buf[2:] because first byte is version, second byte is type and
	// length is next
	n := int(binary.BigEndian.Uint16(buf[2:]))
	if n < HeaderLen {
		return 0, fmt.Errorf("%w: header claims %d bytes", ErrShortMessage, n)
	}
	return n, nil
}

// echoMessage is an echo request or reply together with its payload.
type echoMessage struct {
	Header ofp13.OfpHeader
	Body   []byte
}

func newEcho(t uint8, body []byte) *echoMessage {
	return &echoMessage{Header: ofp13.NewOfpHeader(t), Body: body}
}

func (m *echoMessage) Serialize() []byte {
	m.Header.Length = uint16(m.Size())
	packet := make([]byte, m.Size())
	copy(packet, m.Header.Serialize())
	copy(packet[HeaderLen:], m.Body)
	return packet
}

func (m *echoMessage) Parse(packet []byte) {
	m.Header.Parse(packet)
	if len(packet) > HeaderLen {
		m.Body = append([]byte(nil), packet[HeaderLen:]...)
	}
}

func (m *echoMessage) Size() int {
	return HeaderLen + len(m.Body)
}

// tableMod adapts gofc's OfpTableMod, whose Parse takes no packet, to
// ofp13.OFMessage.
type tableMod struct {
	*ofp13.OfpTableMod
}

func (m tableMod) Parse(packet []byte) {
	if len(packet) < m.Size() {
		return
	}
	m.Header.Parse(packet)
	m.TableId = packet[HeaderLen]
	m.Config = binary.BigEndian.Uint32(packet[HeaderLen+4:])
}
