package wire

import (
	"bytes"
	"errors"
	"io"
)

var errTruncatedTlv = errors.New("wire: truncated optional parameter")
var errInvalidPrefixLength = errors.New("wire: prefix length exceeds 32 bits")
var errTruncatedRoute = errors.New("wire: truncated route prefix")
var errTruncatedAttr = errors.New("wire: truncated path attribute")

// byteReader adapts a byte slice to an io.Reader for stream.Reader,
// which is otherwise meant to sit atop a net.Conn.
func byteReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
