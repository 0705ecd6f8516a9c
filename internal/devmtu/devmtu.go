// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package devmtu supplies drrq.MTUProvider implementations that read a
// device's MTU from the host instead of requiring the caller to hardcode it.
package devmtu

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// Interface looks up a network interface by name and reports its MTU. It
// implements drrq.MTUProvider.
type Interface struct {
	name string
}

// ForInterface returns an MTUProvider backed by the named interface (e.g.
// "eth0"). The lookup happens on every call to MTU, so interface changes
// (unlikely mid-process, but possible in network namespaces) are picked up
// without reconstructing the provider.
func ForInterface(name string) Interface { return Interface{name: name} }

func (i Interface) MTU() uint32 {
	iface, err := net.InterfaceByName(i.name)
	if err != nil || iface.MTU <= 0 {
		return 0
	}
	return uint32(iface.MTU)
}

// EnvProvider reads the MTU from an environment variable, falling back to
// Default when unset or unparseable. Useful for container deployments where
// the scheduler runs detached from any particular NIC.
type EnvProvider struct {
	Var     string
	Default uint32
}

func (e EnvProvider) MTU() uint32 {
	v := os.Getenv(e.Var)
	if v == "" {
		return e.Default
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil || n == 0 {
		return e.Default
	}
	return uint32(n)
}

// String renders a human-readable description, useful for startup logs.
func (i Interface) String() string { return fmt.Sprintf("devmtu.Interface(%q)", i.name) }
