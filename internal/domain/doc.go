// Package domain models the facility survey dataset shown on the dashboard.
//
// # Data Source
//
// Records come from one warehouse table (by default the BigQuery table
// homework-1-452605.survery_1309.survey_table). Every render pass reads the
// whole table with a single SELECT * and decodes the rows with [DecodeRows].
//
// # Column Conventions
//
//	FACILITYID     facility identifier; STRING or INT64 in the warehouse,
//	               always a string here.
//	LATITUDE_DEC   WGS-84 latitude in decimal degrees.
//	LONGITUDE_DEC  WGS-84 longitude in decimal degrees.
//	ELEVATIONFT    elevation in feet. May arrive as FLOAT64, INT64 or NUMERIC.
//	ACTIVEFLAG     0/1 activity indicator. NULL is common in the survey data
//	               and means inactive; floats are truncated toward zero, the
//	               same as a dataframe integer cast.
//
// Extra columns are ignored. A missing column, a NULL identifier or
// coordinate, a non-numeric value, or an active flag other than 0/1 stops the
// load with a [SchemaError] pointing at the first offending row.
//
// # Filtering
//
// [Filter] keeps the records whose active flag is in the accepted set and
// whose elevation lies in [min, max] inclusive. Order is preserved, an empty
// accepted set or min > max yields an empty result.
package domain
