// Package readers contains the format dispatcher and the per-format reader
// adapters. Each reader decodes one on-disk layout into the raw table
// contract consumed by the canonicalization pipeline.
package readers

import "sort"

// Format keys accepted by the ingestion entry point.
const (
	KeySbeCnv      = "sbe-cnv"
	KeySeasunTob   = "seasun-tob"
	KeyCSV         = "csv"
	KeyNetCDF      = "netcdf"
	KeyNortekAscii = "nortek-ascii"
	KeyRbrAscii    = "rbr-ascii"
	KeyRskAuto     = "rbr-rsk"
	KeyRskDefault  = "rbr-rsk-default"
	KeyRskLegacy   = "rbr-rsk-legacy"
	KeyMatrix      = "adcp-matrix"
)

// Format describes one supported input format for listings.
type Format struct {
	Key       string
	Name      string
	Extension string
	Variant   string
}

// registry is the static format table. Extension is empty for formats that
// require an explicit key.
var registry = []Format{
	{KeySbeCnv, "SeaBird CNV", ".cnv", "SbeCnvReader"},
	{KeySeasunTob, "Sea & Sun TOB", ".tob", "SeasunTobReader"},
	{KeyCSV, "CSV", ".csv", "CsvReader"},
	{KeyNetCDF, "NetCDF", ".nc", "NetCdfReader"},
	{KeyNortekAscii, "Nortek ASCII", "", "NortekAsciiReader"},
	{KeyRbrAscii, "RBR ASCII", "", "RbrAsciiReader"},
	{KeyRskAuto, "RBR RSK (auto)", ".rsk", "RskAutoReader"},
	{KeyRskDefault, "RBR RSK", "", "RskReader"},
	{KeyRskLegacy, "RBR RSK (legacy)", "", "RskLegacyReader"},
	{KeyMatrix, "ADCP matrix export", ".npz", "MatrixReader"},
}

// Formats returns the supported formats sorted by key.
func Formats() []Format {
	out := make([]Format, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// knownKey reports whether key names a registered format.
func knownKey(key string) bool {
	for _, f := range registry {
		if f.Key == key {
			return true
		}
	}
	return false
}

// keyForExtension returns the format key registered for a file extension.
func keyForExtension(ext string) (string, bool) {
	for _, f := range registry {
		if f.Extension != "" && f.Extension == ext {
			return f.Key, true
		}
	}
	return "", false
}
