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

package search

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// UsedMemoryKB returns the resident set size of the current process in
// kilobytes, read from /proc/self/status. Returns 0 on platforms without
// that pseudo-file.
func UsedMemoryKB() uint64 {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "VmRSS:" {
			v, _ := strconv.ParseUint(fields[1], 10, 64)
			return v
		}
	}
	return 0
}

// FreeMemoryKB returns the system's readily available memory in kilobytes:
// MemFree + Buffers + Cached from /proc/meminfo, matching how common system
// monitors report "available" memory. Returns 0 on platforms without that
// pseudo-file (the memory guard then never trips).
func FreeMemoryKB() uint64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	var total uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemFree:", "Buffers:", "Cached:":
			v, _ := strconv.ParseUint(fields[1], 10, 64)
			total += v
		}
	}
	return total
}
