package fileformat

import (
	"encoding/binary"
	"fmt"
	"os"
)

type WavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BytesPerSec   uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func writeWavHeader(file *os.File, data []byte, sampleRate, channels, bitsPerSample int) error {
	if len(data)%channels != 0 {
		return fmt.Errorf("invalid data or invalid no of channels")
	}

	subHeaderChunkSize := uint16(16)
	bytesPerSample := bitsPerSample / 8
	blockAlign := uint16(bytesPerSample * channels)
	subDataChunk := uint32(len(data))

	header := WavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'}, //flag to say this is a RIFF file, read the next chunk sizes and types accordingly.
		ChunkSize:     uint32(36 + len(data)),      //size of header + data
		Format:        [4]byte{'W', 'A', 'V', 'E'}, //flag for format of file type
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '}, //flag for meta data format
		Subchunk1Size: uint32(subHeaderChunkSize),
		AudioFormat:   uint16(1), //PCM Format
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		BytesPerSec:   uint32(channels * sampleRate * bytesPerSample), //streaming speed
		BlockAlign:    blockAlign,
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'}, //flag for data
		Subchunk2Size: subDataChunk,
	}

	//write header into the file
	err := binary.Write(file, binary.LittleEndian, header)
	if err != nil {
		return fmt.Errorf("cannot write header to file: %v", err)
	}

	return nil
}

func WriteWavFile(filename string, data []byte, sampleRate, channels, bitsPerSample int) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	defer f.Close()

	if sampleRate <= 0 || channels <= 0 || bitsPerSample <= 0 {
		return fmt.Errorf(
			"values must be greater than zero (sampleRate: %d, channels: %d, bitsPerSample: %d)",
			sampleRate, channels, bitsPerSample,
		)
	}

	//write header
	err = writeWavHeader(f, data, sampleRate, channels, bitsPerSample)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err != nil {
		return err
	}

	return nil
}
