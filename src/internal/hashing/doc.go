// Package hashing provides MD5 checksum calculation utilities.
//
// ChecksumWriterProxy hashes data on its way to an io.Writer. The API uses it
// to tag one-shot tail responses, so a client polling an unchanged file gets
// 304 Not Modified instead of the same window again.
//
// # Example Usage
//
//	var buf bytes.Buffer
//	proxy := hashing.NewMD5WriterProxy(&buf)
//	json.NewEncoder(proxy).Encode(payload)
//
//	w.Header().Set("ETag", hashing.ETag(proxy))
package hashing
