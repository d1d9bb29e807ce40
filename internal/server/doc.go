// Package server exposes the inventory service over a JSON HTTP API.
//
// Business failures come back as structured {"status":"error","reason":...}
// payloads with a 4xx status; schema and I/O faults surface as 500s. The CSV
// export endpoint streams the ledger as a text/csv attachment.
package server
