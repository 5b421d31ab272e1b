package migrations

import "embed"

// PostgresFS embeds the PostgreSQL schema files for the daily tables.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the ClickHouse schema files for snapshot history.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
