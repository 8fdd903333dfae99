package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
)

type ChecksumProvider interface {
	GetChecksum() string
}

// ChecksumWriterProxy is a proxy that calculates the MD5 checksum of data as it's written.
type ChecksumWriterProxy struct {
	writer   io.Writer
	checksum hash.Hash
}

// NewMD5WriterProxy creates a new instance of ChecksumWriterProxy.
func NewMD5WriterProxy(writer io.Writer) *ChecksumWriterProxy {
	return &ChecksumWriterProxy{
		writer:   writer,
		checksum: md5.New(),
	}
}

// Write writes to the underlying writer and adds the written bytes to the checksum.
func (p *ChecksumWriterProxy) Write(buf []byte) (int, error) {
	n, err := p.writer.Write(buf)
	if n > 0 {
		// hash.Hash.Write never returns an error
		p.checksum.Write(buf[:n])
	}
	return n, err
}

// GetChecksum returns the MD5 checksum of everything written so far as a hex string.
func (p *ChecksumWriterProxy) GetChecksum() string {
	return hex.EncodeToString(p.checksum.Sum(nil))
}

// ETag returns the checksum as a strong HTTP entity tag.
func ETag(p ChecksumProvider) string {
	return `"` + p.GetChecksum() + `"`
}
