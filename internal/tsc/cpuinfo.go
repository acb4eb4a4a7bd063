package tsc

import (
	"bufio"
	"bytes"
	"strings"
)

// A timestamp counter is only usable as a clock when the CPU advertises both
// constant_tsc (the counter ticks at a fixed rate regardless of frequency
// scaling) and nonstop_tsc (it keeps ticking in deep sleep states).
// Both show up in the flags line of /proc/cpuinfo.

func hasTSCFlags(cpuinfo []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(cpuinfo))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		line := scanner.Text()
		name, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(name) != "flags" {
			continue
		}
		constant, nonstop := false, false
		for _, flag := range strings.Fields(value) {
			switch flag {
			case "constant_tsc":
				constant = true
			case "nonstop_tsc":
				nonstop = true
			}
		}
		// all cores of one package report the same flags, the first
		// flags line is enough
		return constant && nonstop
	}
	return false
}
