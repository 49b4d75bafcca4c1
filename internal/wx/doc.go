// Package wx models aviation weather reports (METAR observations and TAF
// forecasts) as immutable domain values.
//
// # Data Source
//
// Reports originate from the NOAA Aviation Weather Center data API
// (https://aviationweather.gov/api/data). The upstream client fetches the
// JSON rendering of each report; the raw coded text travels alongside the
// decoded fields so the verbatim observation is never lost.
//
// # Report Shape
//
// Every report shares the WeatherData envelope: a process-unique id, the
// ingestion instant, the upstream source, a processing-layer tag, the
// station identifier, and the observation instant. NOAAReport adds the
// coded-report fields (type, modifier, raw text, quality-control flags,
// runway visual ranges, remarks) and a WeatherConditions block. TAFReport
// further adds the issue time, the validity window, and the ordered
// forecast periods, each carrying its own WeatherConditions.
//
// Serialized documents are discriminated by a "dataType" property
// (NOAA, METAR, TAF, TEST); see MarshalReport and UnmarshalReport.
//
// # Aviation Conventions
//
// Sky coverage is ranked in oktas (eighths of sky): SKC/CLR/NSC cover 0,
// FEW 1, SCT 3, BKN 5, and OVC/VV 8. A ceiling is the lowest BKN, OVC, or
// VV layer. Instrument meteorological conditions (IMC) apply below 3
// statute miles or 5 kilometers of visibility, or below a 1000 ft ceiling.
//
// Station identifiers are ICAO-style codes of 3-4 ASCII letters,
// normalized to uppercase ("kjfk" -> "KJFK").
//
// Pressure carries its reporting unit. METAR altimeter groups ("A2992")
// are hundredths of inches of mercury; QNH groups ("Q1013") are whole
// hectopascals. Values outside [25,35] inHg or [850,1100] hPa are rejected
// as implausible.
//
// # Construction
//
// WeatherConditions values are assembled with ConditionsBuilder, which is
// single-goroutine and validates each group as it is set. The built value
// is deeply immutable: slices are copied in and copied back out. All other
// value types validate in their constructors and return typed errors from
// the wxerr package on violation.
package wx
