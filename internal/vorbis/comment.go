package vorbis

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Packet type bytes of the three Vorbis header packets, each followed by
// the literal "vorbis".
const (
	identType   = 0x01
	commentType = 0x03
	setupType   = 0x05
)

const headerMagic = "vorbis"

// CommentHeader is a Vorbis comment header under construction: a vendor
// string plus an ordered list of name=value tags.
//
// Tags are kept in insertion order and a name may repeat; a multi-valued
// tag (several artists, say) is just the same name added several times.
//
// Example:
//
//	h := vorbis.NewCommentHeader("Ogg")
//	h.AddTag("title", "Song")
//	h.AddTag("artist", "First")
//	h.AddTag("artist", "Second")
type CommentHeader struct {
	// Vendor is the vendor string written ahead of the tags.
	Vendor string

	tags []string
}

// NewCommentHeader creates an empty comment header with the given vendor
// string.
func NewCommentHeader(vendor string) *CommentHeader {
	return &CommentHeader{Vendor: vendor}
}

// AddTag appends one name=value tag. Insertion order is preserved in the
// encoded packet.
func (h *CommentHeader) AddTag(name, value string) {
	h.tags = append(h.tags, name+"="+value)
}

// Tags returns every value recorded for name, in insertion order. Tag
// names compare case-insensitively, as the comment format prescribes.
func (h *CommentHeader) Tags(name string) []string {
	var values []string
	for _, tag := range h.tags {
		eq := strings.IndexByte(tag, '=')
		if eq < 0 {
			continue
		}
		if strings.EqualFold(tag[:eq], name) {
			values = append(values, tag[eq+1:])
		}
	}
	return values
}

// Len returns the number of tags in the header.
func (h *CommentHeader) Len() int {
	return len(h.tags)
}

// encode serializes the header as a complete comment packet: type byte,
// "vorbis", vendor, tag list, framing bit.
func (h *CommentHeader) encode() []byte {
	size := 7 + 4 + len(h.Vendor) + 4 + 1
	for _, tag := range h.tags {
		size += 4 + len(tag)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, commentType)
	buf = append(buf, headerMagic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(h.Vendor)))
	buf = append(buf, h.Vendor...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(h.tags)))
	for _, tag := range h.tags {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tag)))
		buf = append(buf, tag...)
	}
	buf = append(buf, 0x01) // framing bit
	return buf
}

// ParseCommentHeader decodes a comment packet produced by encode or by
// any compliant encoder.
func ParseCommentHeader(packet []byte) (*CommentHeader, error) {
	if len(packet) < 7 || packet[0] != commentType || string(packet[1:7]) != headerMagic {
		return nil, fmt.Errorf("not a vorbis comment packet")
	}
	b := packet[7:]

	readString := func() (string, error) {
		if len(b) < 4 {
			return "", fmt.Errorf("truncated comment packet")
		}
		n := binary.LittleEndian.Uint32(b)
		b = b[4:]
		if uint32(len(b)) < n {
			return "", fmt.Errorf("truncated comment packet")
		}
		s := string(b[:n])
		b = b[n:]
		return s, nil
	}

	vendor, err := readString()
	if err != nil {
		return nil, err
	}
	h := NewCommentHeader(vendor)

	if len(b) < 4 {
		return nil, fmt.Errorf("truncated comment packet")
	}
	count := binary.LittleEndian.Uint32(b)
	b = b[4:]

	for i := uint32(0); i < count; i++ {
		tag, err := readString()
		if err != nil {
			return nil, err
		}
		h.tags = append(h.tags, tag)
	}

	if len(b) < 1 || b[0]&0x01 == 0 {
		return nil, fmt.Errorf("missing framing bit")
	}

	return h, nil
}
