// Package dump moves export artifacts between storage locations. A dump
// location may be a local path, a file:// URL, an http(s):// URL (read
// only), or an s3:// URL. Each table occupies a directory containing
// schema.sql and data.sql.
package dump
