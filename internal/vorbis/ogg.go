package vorbis

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Ogg physical framing: every page starts with a fixed 27-byte header
// followed by a segment table and the segment payloads. Packets are laced
// across segments; a segment shorter than 255 bytes ends a packet.
const (
	pageMagic      = "OggS"
	pageHeaderSize = 27

	flagContinued = 0x01
	flagFirst     = 0x02
	flagLast      = 0x04
)

// page is one parsed Ogg page.
type page struct {
	headerType byte
	granule    uint64
	serial     uint32
	seq        uint32
	segments   []byte
	payload    []byte
}

// crcTable is the Ogg page checksum table: CRC-32 with polynomial
// 0x04c11db7, no bit reflection, zero initial value and no final xor.
var crcTable = func() [256]uint32 {
	var table [256]uint32
	for i := range table {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}()

func crcUpdate(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// readPage parses one page at the start of b and returns it together
// with the number of bytes consumed.
func readPage(b []byte) (page, int, error) {
	if len(b) < pageHeaderSize {
		return page{}, 0, fmt.Errorf("short page: %d bytes", len(b))
	}
	if string(b[:4]) != pageMagic {
		return page{}, 0, fmt.Errorf("bad capture pattern %q", b[:4])
	}
	if b[4] != 0 {
		return page{}, 0, fmt.Errorf("unsupported ogg version %d", b[4])
	}

	nsegs := int(b[26])
	if len(b) < pageHeaderSize+nsegs {
		return page{}, 0, fmt.Errorf("truncated segment table")
	}
	segments := b[pageHeaderSize : pageHeaderSize+nsegs]

	payloadLen := 0
	for _, s := range segments {
		payloadLen += int(s)
	}
	total := pageHeaderSize + nsegs + payloadLen
	if len(b) < total {
		return page{}, 0, fmt.Errorf("truncated page payload")
	}

	return page{
		headerType: b[5],
		granule:    binary.LittleEndian.Uint64(b[6:14]),
		serial:     binary.LittleEndian.Uint32(b[14:18]),
		seq:        binary.LittleEndian.Uint32(b[18:22]),
		segments:   segments,
		payload:    b[pageHeaderSize+nsegs : total],
	}, total, nil
}

// parsePages parses a whole physical stream into pages.
func parsePages(b []byte) ([]page, error) {
	var pages []page
	for len(b) > 0 {
		p, n, err := readPage(b)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", len(pages), err)
		}
		pages = append(pages, p)
		b = b[n:]
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no ogg pages found")
	}
	return pages, nil
}

// writePage serializes p, computing the checksum over the page with the
// checksum field zeroed.
func writePage(w *bytes.Buffer, p page) {
	header := make([]byte, pageHeaderSize, pageHeaderSize+len(p.segments))
	copy(header, pageMagic)
	header[5] = p.headerType
	binary.LittleEndian.PutUint64(header[6:14], p.granule)
	binary.LittleEndian.PutUint32(header[14:18], p.serial)
	binary.LittleEndian.PutUint32(header[18:22], p.seq)
	header[26] = byte(len(p.segments))
	header = append(header, p.segments...)

	crc := crcUpdate(0, header)
	crc = crcUpdate(crc, p.payload)
	binary.LittleEndian.PutUint32(header[22:26], crc)

	w.Write(header)
	w.Write(p.payload)
}

// lacing returns the segment table entries for one packet of length n. A
// length that is an exact multiple of 255 still needs a terminating zero
// segment.
func lacing(n int) []byte {
	segs := make([]byte, 0, n/255+1)
	for n >= 255 {
		segs = append(segs, 255)
		n -= 255
	}
	return append(segs, byte(n))
}

// packPages lays the given packets out over as many pages as needed,
// filling each page with up to 255 segments. Pages that begin mid-packet
// get the continuation flag. All pages carry granule position zero,
// which is the required value for header pages.
func packPages(packets [][]byte, serial uint32, firstSeq uint32) []page {
	var segments []byte
	var payload []byte
	for _, pkt := range packets {
		segments = append(segments, lacing(len(pkt))...)
		payload = append(payload, pkt...)
	}

	var pages []page
	seq := firstSeq
	continued := false
	for len(segments) > 0 {
		n := len(segments)
		if n > 255 {
			n = 255
		}
		take := segments[:n]
		segments = segments[n:]

		size := 0
		for _, s := range take {
			size += int(s)
		}

		var flags byte
		if continued {
			flags = flagContinued
		}

		pages = append(pages, page{
			headerType: flags,
			serial:     serial,
			seq:        seq,
			segments:   take,
			payload:    payload[:size],
		})
		payload = payload[size:]
		seq++
		continued = take[n-1] == 255
	}
	return pages
}
