// Package classify infers a device type, company, and display name from
// the fields of a BLE advertisement. All tables are ordered and matched
// first-wins; classification must stay deterministic for a given input.
package classify

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the classifier output for one advertisement.
type Result struct {
	DeviceType     string
	Company        string
	MeaningfulName string
}

const (
	appleCompanyID = 0x004C
	findMyType     = 0x12 // first payload byte of a Find My frame
)

// nameKeywords maps advertised-name substrings to a device type.
// Matched case-insensitively in table order, first match wins.
var nameKeywords = []struct {
	keyword    string
	deviceType string
}{
	{"airtag", "AirTag"},
	{"airpod", "AirPods"},
	{"iphone", "iPhone"},
	{"ipad", "iPad"},
	{"macbook", "MacBook"},
	{"watch", "Watch"},
	{"smarttag", "Tracker"},
	{"tile", "Tracker"},
	{"tag", "Tracker"},
	{"buds", "Earbuds"},
	{"headphone", "Headphones"},
	{"speaker", "Speaker"},
	{"soundbar", "Speaker"},
	{"tv", "TV"},
	{"band", "Fitness Band"},
	{"fit", "Fitness Band"},
	{"keyboard", "Keyboard"},
	{"mouse", "Mouse"},
	{"pencil", "Stylus"},
	{"scale", "Scale"},
	{"lock", "Smart Lock"},
	{"cam", "Camera"},
	{"bulb", "Smart Bulb"},
	{"plug", "Smart Plug"},
}

// serviceHints maps short-form service UUID fragments to a device type.
// Consulted only when the name and manufacturer data gave no type.
var serviceHints = []struct {
	fragment   string
	deviceType string
}{
	{"110a", "Audio Device"},
	{"110b", "Audio Device"},
	{"180d", "Health Device"},
	{"180f", "Battery-powered Device"},
	{"1801", "Smart Device"},
	{"1802", "Smart Device"},
}

// ouiPrefixes maps MAC vendor prefixes to a company. Only a small set of
// common vendors; the company-ID table is the usual source.
var ouiPrefixes = []struct {
	prefix  string
	company string
}{
	{"A4:83:E7", "Apple"},
	{"F0:D1:A9", "Apple"},
	{"AC:BC:32", "Apple"},
	{"8C:F5:A3", "Samsung"},
	{"F4:F5:D8", "Google"},
	{"44:65:0D", "Amazon"},
	{"24:0A:C4", "Espressif"},
	{"B8:27:EB", "Raspberry Pi"},
}

// HasFindMySignature reports whether the manufacturer data carries an
// Apple Find My frame. Shared with the ingest filter and the sticky
// is-airtag flag.
func HasFindMySignature(mfr map[uint16][]byte) bool {
	payload, ok := mfr[appleCompanyID]
	return ok && len(payload) > 0 && payload[0] == findMyType
}

// findMyDeviceType refines the type from the Find My payload status byte.
func findMyDeviceType(payload []byte) string {
	if len(payload) < 3 {
		return "Find My Device"
	}
	switch payload[2] {
	case 0x05:
		return "AirTag"
	case 0x07:
		return "AirPods"
	case 0x09:
		return "Apple Watch"
	case 0x0B:
		return "iPhone"
	default:
		return "Find My Device"
	}
}

// Classify derives the device type, company, and display name for an
// advertisement. Rule order is load-bearing: the Find My signature
// overrides a name-derived type, service hints and OUI prefixes only
// fill gaps.
func Classify(name string, mfr map[uint16][]byte, address string, serviceUUIDs []string) Result {
	var r Result

	lower := strings.ToLower(name)
	if lower != "" {
		for _, kw := range nameKeywords {
			if strings.Contains(lower, kw.keyword) {
				r.DeviceType = kw.deviceType
				break
			}
		}
	}

	if HasFindMySignature(mfr) {
		r.DeviceType = findMyDeviceType(mfr[appleCompanyID])
	}

	for _, id := range sortedCompanyIDs(mfr) {
		if company := LookupManufacturer(id); company != "" {
			r.Company = company
			break
		}
	}

	if r.DeviceType == "" {
		for _, hint := range serviceHints {
			if matchesService(serviceUUIDs, hint.fragment) {
				r.DeviceType = hint.deviceType
				break
			}
		}
	}

	if r.Company == "" {
		upper := strings.ToUpper(address)
		for _, oui := range ouiPrefixes {
			if strings.HasPrefix(upper, oui.prefix) {
				r.Company = oui.company
				break
			}
		}
	}

	r.MeaningfulName = composeName(name, r.Company, r.DeviceType, address)
	return r
}

// IsRealName reports whether an advertised name is an actual name rather
// than an absent-value placeholder.
func IsRealName(name string) bool {
	return name != "" && name != "N/A" && name != "Unknown"
}

func composeName(name, company, deviceType, address string) string {
	switch {
	case IsRealName(name):
		return name
	case company != "" && deviceType != "":
		return company + " " + deviceType
	case company != "":
		return company + " Device"
	case deviceType != "":
		return deviceType
	default:
		group := address
		if i := strings.IndexByte(address, ':'); i > 0 {
			group = address[:i]
		}
		return fmt.Sprintf("Device %s...", group)
	}
}

func matchesService(uuids []string, fragment string) bool {
	for _, u := range uuids {
		if strings.Contains(strings.ToLower(u), fragment) {
			return true
		}
	}
	return false
}

// sortedCompanyIDs keeps company selection deterministic regardless of
// map iteration order.
func sortedCompanyIDs(mfr map[uint16][]byte) []uint16 {
	ids := make([]uint16, 0, len(mfr))
	for id := range mfr {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
