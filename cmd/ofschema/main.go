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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kube-ovs/ofschema/catalog"
	"github.com/kube-ovs/ofschema/config"
	"github.com/kube-ovs/ofschema/connection"
	"github.com/kube-ovs/ofschema/flows"
	"github.com/kube-ovs/ofschema/protocol"
	"k8s.io/klog"
)

const (
	formatText   = "text"
	formatBinary = "binary"
)

func main() {
	klog.InitFlags(flag.CommandLine)

	list := flag.Bool("list", false, "list every registered variant and exit")
	flowFile := flag.String("flows", "", "TOML flow declaration file to compile")
	format := flag.String("format", formatText, "output format for -flows: text or binary")
	sync := flag.Bool("sync", false, "replace the flows on the bridge with the compiled ones")
	decodeFile := flag.String("decode", "", "file of captured OpenFlow 1.3 messages to decode")
	bridge := flag.String("bridge", "", "bridge to sync, overrides OFSCHEMA_BRIDGE and the flow file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		klog.Errorf("error loading configuration: %v", err)
		os.Exit(1)
	}

	model, err := protocol.Load(catalog.OFP13())
	if err != nil {
		klog.Errorf("error building the protocol model: %v", err)
		os.Exit(1)
	}
	klog.V(2).Infof("protocol model ready with %d registered variants", model.Registry().Len())

	switch {
	case *list:
		err = listVariants(os.Stdout, model)
	case *flowFile != "":
		err = compileFlows(os.Stdout, model, cfg, *flowFile, *format, *sync, *bridge)
	case *decodeFile != "":
		err = decodeMessages(os.Stdout, model, cfg, *decodeFile)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}

func listVariants(w io.Writer, model *protocol.Model) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tCODE\tVARIANT")
	for _, e := range model.Registry().Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key.Family, e.Key.Code, e.Schema.Name())
	}
	return tw.Flush()
}

func compileFlows(w io.Writer, model *protocol.Model, cfg *config.Config, path, format string, sync bool, bridge string) error {
	file, err := config.LoadFlowFile(path, model)
	if err != nil {
		return err
	}

	switch format {
	case formatText:
		enc := flows.NewEncoder(model)
		for _, msg := range file.Messages {
			err := enc.Encode(msg)
			if errors.Is(err, protocol.ErrNotImplemented) {
				klog.Warningf("skipping %s, it has no flow text form", msg.Name())
				continue
			}
			if err != nil {
				return fmt.Errorf("error rendering %s: %v", msg.Name(), err)
			}
		}

		buffer := flows.NewFlowsBuffer().WithOfctl(cfg.Ofctl).WithProtocol(cfg.Protocol)
		if err := enc.AddTo(buffer); err != nil {
			return err
		}
		if !sync {
			_, err := io.WriteString(w, buffer.String())
			return err
		}

		target := cfg.Bridge
		if file.Bridge != "" {
			target = file.Bridge
		}
		if bridge != "" {
			target = bridge
		}
		klog.Infof("syncing %d flows to bridge %q", len(enc.Flows()), target)
		return buffer.SyncFlows(target)

	case formatBinary:
		if sync {
			return fmt.Errorf("-sync needs the %s format", formatText)
		}
		enc := connection.NewEncoder(model)
		for _, msg := range file.Messages {
			if err := model.EncodeMessage(msg, cfg.DatapathID, enc); err != nil {
				return fmt.Errorf("error encoding %s: %v", msg.Name(), err)
			}
		}
		_, err := w.Write(enc.Bytes())
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func decodeMessages(w io.Writer, model *protocol.Model, cfg *config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := connection.NewReader(f)
	decoder := connection.NewDecoder(model, cfg.DatapathID)
	for {
		buf, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading %s: %v", path, err)
		}

		decoded, err := decoder.Decode(buf)
		if err != nil {
			return fmt.Errorf("error decoding message: %v", err)
		}
		if !decoded.Registered {
			fmt.Fprintf(w, "unregistered %s %d\n", decoded.Family, decoded.Code)
			continue
		}
		fmt.Fprintln(w, decoded.Object)
	}
}
