package ingest

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/ajitpratap0/quarry/pkg/errors"
)

const utf8BOM = "\ufeff"

// lookupEncoding resolves a WHATWG label. It returns nil for UTF-8, which
// needs no transcoding.
func lookupEncoding(label string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "unsupported encoding").
			WithDetail("encoding", label)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// lineSplittable reports whether raw bytes of enc can be split on '\n'
// before decoding, i.e. newline, quote and separator keep their ASCII
// byte values. UTF-16 variants are not.
func lineSplittable(enc encoding.Encoding, sep rune) bool {
	if enc == nil {
		return true
	}
	sample := "\n\"" + string(sep)
	out, err := enc.NewEncoder().Bytes([]byte(sample))
	return err == nil && bytes.Equal(out, []byte(sample))
}
