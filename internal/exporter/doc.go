// Package exporter writes the published artifacts of the BCB pipelines.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with semicolon separation,
// streaming support, and a gzip fallback for files that exceed the
// repository size limit.
//
// Row builders: StrategicRows and MembershipRows render domain records in
// the published column order, with two-decimal floats and empty cells for
// KPIs whose denominator was zero.
//
// WriteReadme: regenerates the data repository README from an embedded
// template so the documentation always matches the last run.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter()
//	result, err := writer.WriteWithGzipFallback(paths.EstbanCSV, exporter.WriteOptions{
//	    Headers: domain.StrategicColumns,
//	    Records: exporter.StrategicRows(dataset.Records),
//	}, cfg.Estban.FileLimitMB)
package exporter
