// Package params defines the canonical parameter vocabulary: the fixed set of
// standard variable names, the alias catalog that maps instrument channel names
// onto them, and the per-parameter metadata table used for enrichment.
//
// The catalog is static and read-only at runtime. Ingestion calls may layer
// explicit overrides on top of it, but never mutate it.
package params

// Canonical parameter names.
const (
	Temperature          = "temperature"
	Oxygen               = "oxygen"
	Pressure             = "pressure"
	Salinity             = "salinity"
	Turbidity            = "turbidity"
	Conductivity         = "conductivity"
	Depth                = "depth"
	Date                 = "date"
	Time                 = "time"
	Latitude             = "latitude"
	Longitude            = "longitude"
	Density              = "density"
	PotentialTemperature = "potential_temperature"

	// Time encodings found in raw files. These resolve to the time
	// coordinate and never survive as data variables.
	TimeJulianDays  = "julian_days_offset"
	TimeSince2000   = "elapsed_seconds_since_2000"
	TimeSinceEpoch  = "elapsed_seconds_since_1970"
	TimeSinceOffset = "elapsed_seconds"
)

// Measurement type attribute values.
const (
	TypeMeasured = "Measured"
	TypeDerived  = "Derived"
)

// Alias binds one canonical name to the raw channel names known to carry it.
// A raw name matches either exactly or with a trailing numeric suffix
// ("Temp" matches "Temp", "Temp_2", "Temp3").
type Alias struct {
	Canonical string
	Raw       []string
}

// Catalog is the ordered alias table. Order is authoritative: when a raw name
// matches aliases from two families, the earlier entry wins.
var Catalog = []Alias{
	{Temperature, []string{"t090C", "t068", "tv290C", "Temp", "T"}},
	{Salinity, []string{"sal00", "Sal", "SALIN"}},
	{Conductivity, []string{"c0mS/cm", "c0", "c1mS/cm", "c1", "cond0mS/cm", "Cond", "C"}},
	{Pressure, []string{"prdM", "prDM", "pr", "Press", "P"}},
	{Turbidity, []string{"turbWETntu0", "Turb"}},
	{Depth, []string{"depSM", "Depth"}},
	{Oxygen, []string{"oxsatMm/Kg", "oxsolMm/Kg", "sbeox0", "sbeox1", "O2"}},
	{Latitude, []string{"latitude", "Lat"}},
	{Longitude, []string{"longitude", "Lon"}},
	{TimeJulianDays, []string{"timeJ", "timeJV2", "timeSCP"}},
	{TimeSince2000, []string{"timeQ", "timeK"}},
	{TimeSinceEpoch, []string{"timeN", "timeY"}},
	{TimeSinceOffset, []string{"timeS", "ElapsedSeconds"}},
	{Time, []string{"time", "Datetime", "DateTime"}},
}

// Metadata holds the descriptive attributes attached to a variable.
type Metadata struct {
	LongName        string
	Units           string
	StandardName    string
	ShortName       string
	MeasurementType string
	ContentType     string
	Positive        string
}

// table maps canonical names to their default metadata. Lookups go through
// Lookup, which strips multiplicity suffixes first.
var table = map[string]Metadata{
	Temperature: {
		LongName:        "Sea Water Temperature",
		Units:           "ITS-90, deg C",
		StandardName:    "sea_water_temperature",
		ShortName:       "WT",
		MeasurementType: TypeMeasured,
		ContentType:     "physicalMeasurement",
	},
	Pressure: {
		StandardName:    "sea_water_pressure",
		ShortName:       "WP",
		MeasurementType: TypeMeasured,
		ContentType:     "physicalMeasurement",
	},
	Conductivity: {
		StandardName:    "sea_water_electrical_conductivity",
		ShortName:       "COND",
		MeasurementType: TypeMeasured,
		ContentType:     "physicalMeasurement",
	},
	Salinity: {
		StandardName:    "sea_water_salinity",
		ShortName:       "SAL",
		MeasurementType: TypeDerived,
		ContentType:     "physicalMeasurement",
	},
	Turbidity: {
		StandardName:    "sea_water_turbidity",
		ShortName:       "Tur",
		MeasurementType: TypeMeasured,
		ContentType:     "physicalMeasurement",
	},
	Oxygen: {
		StandardName: "volume_fraction_of_oxygen_in_sea_water",
		ContentType:  "physicalMeasurement",
	},
	Depth: {
		LongName:     "Depth",
		Units:        "meters",
		StandardName: "depth",
		ShortName:    "D",
		ContentType:  "coordinate",
		Positive:     "up",
	},
	Density: {
		LongName:        "Density",
		Units:           "kg m-3",
		StandardName:    "sea_water_density",
		MeasurementType: TypeDerived,
	},
	PotentialTemperature: {
		LongName:        "Potential Temperature",
		Units:           "degC",
		StandardName:    "sea_water_potential_temperature",
		MeasurementType: TypeDerived,
	},
	Latitude: {
		LongName:     "Latitude",
		Units:        "degrees_north",
		StandardName: "latitude",
		ShortName:    "lat",
		ContentType:  "coordinate",
	},
	Longitude: {
		LongName:     "Longitude",
		Units:        "degrees_east",
		StandardName: "longitude",
		ShortName:    "lon",
		ContentType:  "coordinate",
	},
	Time: {
		LongName:     "Time",
		StandardName: "time",
		ContentType:  "coordinate",
	},
}

// Lookup returns the default metadata for a canonical name. The name may carry
// a multiplicity suffix ("temperature_2"); the base name is used for lookup.
func Lookup(name string) (Metadata, bool) {
	m, ok := table[BaseName(name)]
	return m, ok
}

// BaseName strips a trailing "_<digits>" multiplicity suffix, if present.
func BaseName(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i > 1 && i < len(name) && name[i-1] == '_' {
		return name[:i-1]
	}
	return name
}

// Allowed returns the canonical parameter names a caller may use as override
// targets, with a short description each.
func Allowed() map[string]string {
	return map[string]string{
		Temperature:  "Temperature in degrees Celsius",
		Salinity:     "Salinity in PSU",
		Conductivity: "Conductivity in S/m",
		Pressure:     "Pressure in dbar",
		Oxygen:       "Oxygen in micromoles/kg",
		Turbidity:    "Turbidity in NTU",
		Depth:        "Depth in meters",
		Date:         "Date of the measurement",
		Time:         "Time of the measurement",
		Latitude:     "Latitude in degrees north",
		Longitude:    "Longitude in degrees east",
	}
}

// IsTimeEncoding reports whether the canonical name is one of the raw time
// encodings consumed by the time axis builder.
func IsTimeEncoding(name string) bool {
	switch name {
	case Time, TimeJulianDays, TimeSince2000, TimeSinceEpoch, TimeSinceOffset:
		return true
	}
	return false
}
