package market

import (
	"fmt"
	"sort"
	"strings"
)

// InstrumentKind identifies one class of remote laboratory instrument.
type InstrumentKind string

const (
	InstrumentDNASequencer       InstrumentKind = "dna-sequencer"
	InstrumentMassSpectrometer   InstrumentKind = "mass-spectrometer"
	InstrumentElectronMicroscope InstrumentKind = "electron-microscope"
	InstrumentXRayDiffractometer InstrumentKind = "x-ray-diffractometer"
	InstrumentNMRSpectrometer    InstrumentKind = "nmr-spectrometer"
	InstrumentFlowCytometer      InstrumentKind = "flow-cytometer"
)

// validInstrumentKinds maps instrument kinds to validity. Unexported to prevent mutation.
var validInstrumentKinds = map[InstrumentKind]bool{
	InstrumentDNASequencer:       true,
	InstrumentMassSpectrometer:   true,
	InstrumentElectronMicroscope: true,
	InstrumentXRayDiffractometer: true,
	InstrumentNMRSpectrometer:    true,
	InstrumentFlowCytometer:      true,
}

// IsValidInstrument returns true if kind is a recognized instrument kind.
func IsValidInstrument(kind InstrumentKind) bool { return validInstrumentKinds[kind] }

// ValidInstrumentNames returns sorted valid instrument kind names.
func ValidInstrumentNames() []string {
	names := make([]string, 0, len(validInstrumentKinds))
	for k := range validInstrumentKinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// ParseInstrument validates a user-supplied instrument name.
func ParseInstrument(s string) (InstrumentKind, error) {
	kind := InstrumentKind(strings.TrimSpace(s))
	if !IsValidInstrument(kind) {
		return "", fmt.Errorf("unknown instrument %q; valid: %s", s, strings.Join(ValidInstrumentNames(), ", "))
	}
	return kind, nil
}
