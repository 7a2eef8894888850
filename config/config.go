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

// Package config loads runtime settings from the environment and flow
// declarations from TOML files.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/go-playground/validator.v9"
)

// EnvPrefix is prepended to every environment variable Load reads.
const EnvPrefix = "ofschema"

// Config holds the settings used when syncing flows to a bridge.
type Config struct {
	Bridge     string `envconfig:"BRIDGE" default:"br0" validate:"required,max=15"`
	Ofctl      string `envconfig:"OFCTL" default:"ovs-ofctl" validate:"required"`
	Protocol   string `envconfig:"PROTOCOL" default:"OpenFlow13" validate:"ofversion"`
	DatapathID uint64 `envconfig:"DATAPATH_ID"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("ofversion", validateOFVersion); err != nil {
		panic(err)
	}
}

// Only OpenFlow 1.3 is modelled; ovs-ofctl accepts it under both names.
func validateOFVersion(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "OpenFlow13", "OpenFlow1.3":
		return true
	}
	return false
}

// Load reads the configuration from OFSCHEMA_* environment variables and
// validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var problems []string
	for _, f := range verrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q validation with value %v", f.Field(), f.Tag(), f.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
