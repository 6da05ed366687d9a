// Package connectors provides the sources documents are read from before
// ingestion. Each connector knows how to enumerate and watch one kind of
// source; the filesystem connector is the only one.
package connectors
