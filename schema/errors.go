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

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDeclaration is wrapped by every error returned from Builder.Build.
var ErrDeclaration = errors.New("invalid schema declaration")

// MissingRequiredFieldError names every required field left unset.
type MissingRequiredFieldError struct {
	Schema string
	Fields []string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field(s): %s", e.Schema, strings.Join(e.Fields, ", "))
}

// TypeMismatchError is returned when a value of the wrong kind is supplied.
type TypeMismatchError struct {
	Schema   string
	Field    string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s must be a %s, got %s", e.Schema, e.Field, e.Expected, e.Got)
}

// OutOfRangeError is returned when an integer lies outside the field's width
// or declared range.
type OutOfRangeError struct {
	Schema string
	Field  string
	Min    uint64
	Max    uint64
	Got    interface{}
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s must be >= %d and <= %d, got %v", e.Schema, e.Field, e.Min, e.Max, e.Got)
}

// InvalidFieldValueError is returned when a custom validator rejects a value.
type InvalidFieldValueError struct {
	Schema string
	Field  string
	Reason string
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Schema, e.Field, e.Reason)
}

// WrongArgumentCountError is returned for scalar construction against a
// schema that does not have exactly one field.
type WrongArgumentCountError struct {
	Schema string
	Fields int
}

func (e *WrongArgumentCountError) Error() string {
	return fmt.Sprintf("%s: scalar argument needs exactly one field, schema has %d", e.Schema, e.Fields)
}
