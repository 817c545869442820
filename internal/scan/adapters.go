package scan

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// AdapterInfo describes one local Bluetooth adapter.
type AdapterInfo struct {
	ID      string // e.g. "hci0"
	Address string
	Bus     string
	Up      bool
}

// ListAdapters enumerates local adapters via hciconfig. Any failure
// (missing binary, no BlueZ, permissions) yields an empty list; the
// caller falls back to the default adapter.
func ListAdapters() []AdapterInfo {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "hciconfig").Output()
	if err != nil {
		return nil
	}
	return parseHciconfig(string(out))
}

// parseHciconfig parses hciconfig output of the form:
//
//	hci0:	Type: Primary  Bus: USB
//		BD Address: AA:BB:CC:DD:EE:FF  ACL MTU: 310:10
//		UP RUNNING
func parseHciconfig(out string) []AdapterInfo {
	var adapters []AdapterInfo
	var cur *AdapterInfo

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			// New adapter block: "hci0:	Type: Primary  Bus: USB"
			idx := strings.IndexByte(line, ':')
			if idx <= 0 {
				continue
			}
			adapters = append(adapters, AdapterInfo{ID: line[:idx]})
			cur = &adapters[len(adapters)-1]
			if i := strings.Index(line, "Bus:"); i >= 0 {
				if fields := strings.Fields(line[i+len("Bus:"):]); len(fields) > 0 {
					cur.Bus = fields[0]
				}
			}
			continue
		}
		if cur == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "BD Address:") {
			fields := strings.Fields(strings.TrimPrefix(trimmed, "BD Address:"))
			if len(fields) > 0 {
				cur.Address = fields[0]
			}
		}
		if strings.HasPrefix(trimmed, "UP") {
			cur.Up = true
		}
	}

	return adapters
}

// ValidMAC reports whether s is a colon-separated 48-bit MAC address.
func ValidMAC(s string) bool {
	if len(s) != 17 {
		return false
	}
	for i, c := range s {
		if (i+1)%3 == 0 {
			if c != ':' {
				return false
			}
		} else {
			if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
				return false
			}
		}
	}
	return true
}
