package index

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/mdobak/go-xerrors"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
)

// indexMagic tags the start of a serialized index so Decode can reject
// unrelated byte streams before attempting to parse them.
const indexMagic uint32 = 0x46504958 // "FPIX"

const indexFormatVersion uint32 = 1

// Encode writes idx to w in a length-prefixed binary format private to
// this package. The byte layout is not a cross-implementation wire
// contract (§4.3); only Encode/Decode round-trip is required.
func (idx *Index) Encode(w io.Writer) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bw := bufio.NewWriter(w)

	if err := writeFields(bw, indexMagic, indexFormatVersion, uint32(len(idx.trackOrder))); err != nil {
		return xerrors.WithStack(err)
	}

	trackIndex := make(map[TrackId]uint32, len(idx.trackOrder))
	for i, id := range idx.trackOrder {
		trackIndex[id] = uint32(i)
		if err := writeString(bw, string(id)); err != nil {
			return xerrors.WithStack(err)
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(idx.postings))); err != nil {
		return xerrors.WithStack(err)
	}

	for hash, entries := range idx.postings {
		header := [4]int32{
			int32(hash.AnchorFreq),
			int32(hash.TargetFreq),
			int32(hash.DeltaTime),
			int32(len(entries)),
		}
		if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
			return xerrors.WithStack(err)
		}

		for _, e := range entries {
			entry := [2]int32{int32(trackIndex[e.TrackId]), int32(e.AnchorTime)}
			if err := binary.Write(bw, binary.LittleEndian, entry); err != nil {
				return xerrors.WithStack(err)
			}
		}
	}

	return bw.Flush()
}

// Decode reads an Index previously written by Encode. It returns
// ErrCorruptIndex, with a stack trace attached, on any structural
// failure: bad magic, truncated stream, or an out-of-range track index.
// The underlying read error is not included.
func Decode(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)

	var magic, version, numTracks uint32
	if err := readFields(br, &magic, &version, &numTracks); err != nil {
		return nil, xerrors.WithStack(ErrCorruptIndex)
	}
	if magic != indexMagic {
		return nil, xerrors.WithStack(ErrCorruptIndex)
	}

	idx := New()
	idx.trackOrder = make([]TrackId, numTracks)
	for i := uint32(0); i < numTracks; i++ {
		s, err := readString(br)
		if err != nil {
			return nil, xerrors.WithStack(ErrCorruptIndex)
		}
		id := TrackId(s)
		idx.trackOrder[i] = id
		idx.tracks[id] = struct{}{}
	}

	var numHashes uint32
	if err := binary.Read(br, binary.LittleEndian, &numHashes); err != nil {
		return nil, xerrors.WithStack(ErrCorruptIndex)
	}

	for i := uint32(0); i < numHashes; i++ {
		var header [4]int32
		if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
			return nil, xerrors.WithStack(ErrCorruptIndex)
		}
		hash := fingerprint.PairHash{
			AnchorFreq: int(header[0]),
			TargetFreq: int(header[1]),
			DeltaTime:  int(header[2]),
		}
		numEntries := header[3]

		entries := make([]IndexEntry, numEntries)
		for j := int32(0); j < numEntries; j++ {
			var raw [2]int32
			if err := binary.Read(br, binary.LittleEndian, &raw); err != nil {
				return nil, xerrors.WithStack(ErrCorruptIndex)
			}
			trackIdx := raw[0]
			if trackIdx < 0 || int(trackIdx) >= len(idx.trackOrder) {
				return nil, xerrors.WithStack(ErrCorruptIndex)
			}
			entries[j] = IndexEntry{TrackId: idx.trackOrder[trackIdx], AnchorTime: int(raw[1])}
		}
		idx.postings[hash] = entries
	}

	return idx, nil
}

func writeFields(w io.Writer, fields ...uint32) error {
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readFields(r io.Reader, fields ...*uint32) error {
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
