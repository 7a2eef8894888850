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
	"bufio"
	"io"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"

	"k8s.io/klog"
)

// Reader frames OpenFlow messages off a byte stream.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the raw bytes of the next message. It returns io.EOF only at
// a message boundary; a stream cut mid-message is io.ErrUnexpectedEOF.
func (r *Reader) Next() ([]byte, error) {
	// peak into the first 8 bytes (the size of OF header messages)
	// the header message contains the length of the entire message
	header, err := r.r.Peek(HeaderLen)
	if err != nil {
		if err == io.EOF && len(header) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	msgLen, err := MessageLength(header)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, msgLen)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}

	klog.V(6).Infof("read message type %d with length %d", buf[1], msgLen)
	return buf, nil
}

// ReadMessage reads and parses the next message.
func (r *Reader) ReadMessage() (ofp13.OFMessage, error) {
	buf, err := r.Next()
	if err != nil {
		return nil, err
	}
	return ParseMessage(buf)
}

// WriteMessages serializes msgs onto w in order.
func WriteMessages(w io.Writer, msgs ...ofp13.OFMessage) error {
	for _, msg := range msgs {
		if _, err := w.Write(SerializeMessage(msg)); err != nil {
			return err
		}
	}
	return nil
}
