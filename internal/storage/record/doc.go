// Package record provides typed access to the fields of one table row.
//
// A Container is bound to a row id, a table schema and a field store. Every
// Put and Get is a single synchronous call to the store; values are coerced
// to one of the native column types on the way in and decoded on the way
// out. Reads report "no value" through an ok result instead of zero values.
package record
