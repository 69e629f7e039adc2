// Package sqlconn reads and writes single columns of single rows over a
// database/sql handle. It knows how to quote, type and upsert for each
// supported SQL dialect and nothing about the values it stores.
package sqlconn
