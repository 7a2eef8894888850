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

package registry

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by any registration attempted after Freeze.
var ErrFrozen = errors.New("registry is frozen")

// DuplicateRegistrationError reports a second schema claiming an occupied key.
type DuplicateRegistrationError struct {
	Key         Key
	Existing    string
	Conflicting string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("duplicate registration for %s: %s is already registered, cannot register %s",
		e.Key, e.Existing, e.Conflicting)
}
