// Package dataset loads launch records into an immutable launch.Dataset.
//
// Two sources are supported, selected by config.DatasetConfig.Source:
//
//	csv     LoadCSV reads a header-named CSV (columns from config.Columns;
//	        extra columns are ignored)
//	sqlite  LoadDB reads a table written by Import, ordered by load sequence
//
// Both apply the same row checks. In strict mode the first row with a
// missing or negative payload, or an outcome other than 0/1, fails the load
// with its line (or sequence) number. In lenient mode bad payloads are
// skipped and out-of-range outcomes are kept; Report counts both.
package dataset
