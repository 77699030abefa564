package vorbis

import (
	"bytes"
	"fmt"
)

// ReplaceCommentHeader rewrites the comment header of a complete Ogg
// Vorbis stream.
//
// The stream's three header packets are recovered from its leading
// pages, the comment packet is replaced with the encoding of header, and
// the stream is re-emitted: identification page first, then the new
// comment and the original setup packet repaginated, then the audio
// pages untouched except for renumbered page sequence numbers and
// recomputed checksums.
//
// The input must start at the Ogg capture pattern; any container
// preamble has to be stripped by the caller first.
func ReplaceCommentHeader(audio []byte, header *CommentHeader) ([]byte, error) {
	pages, err := parsePages(audio)
	if err != nil {
		return nil, err
	}

	packets, audioStart, err := headerPackets(pages)
	if err != nil {
		return nil, err
	}

	ident, setup := packets[0], packets[2]
	if len(ident) < 7 || ident[0] != identType || string(ident[1:7]) != headerMagic {
		return nil, fmt.Errorf("first packet is not a vorbis identification header")
	}
	if len(setup) < 7 || setup[0] != setupType || string(setup[1:7]) != headerMagic {
		return nil, fmt.Errorf("third packet is not a vorbis setup header")
	}

	serial := pages[0].serial
	out := new(bytes.Buffer)

	writePage(out, page{
		headerType: flagFirst,
		serial:     serial,
		seq:        0,
		segments:   lacing(len(ident)),
		payload:    ident,
	})

	seq := uint32(1)
	for _, p := range packPages([][]byte{header.encode(), setup}, serial, seq) {
		writePage(out, p)
		seq++
	}

	for _, p := range pages[audioStart:] {
		p.seq = seq
		writePage(out, p)
		seq++
	}

	return out.Bytes(), nil
}

// headerPackets assembles the first three packets from the leading pages
// and returns them together with the index of the first audio page.
// Vorbis requires audio packets to start on a fresh page, so the third
// packet has to end exactly at a page boundary.
func headerPackets(pages []page) ([][]byte, int, error) {
	var packets [][]byte
	var current []byte

	for i, p := range pages {
		for _, seg := range p.segments {
			// Lacing values index into the payload sequentially.
			current = append(current, p.payload[:seg]...)
			p.payload = p.payload[seg:]
			if seg < 255 {
				packets = append(packets, current)
				current = nil
			}
		}

		if len(packets) >= 3 {
			if len(packets) > 3 || len(current) != 0 {
				return nil, 0, fmt.Errorf("audio packet shares a page with the setup header")
			}
			return packets, i + 1, nil
		}
	}

	return nil, 0, fmt.Errorf("stream ends inside the header packets (%d found)", len(packets))
}

// Rewriter adapts ReplaceCommentHeader to the download pipeline's
// collaborator interface.
type Rewriter struct{}

// Splice implements the pipeline's comment-header rewriting step.
func (Rewriter) Splice(audio []byte, header *CommentHeader) ([]byte, error) {
	return ReplaceCommentHeader(audio, header)
}
