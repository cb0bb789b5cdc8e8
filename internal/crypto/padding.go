package crypto

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// CalcPaddedLen returns the padded size bucket for an unpadded length.
//
// Lengths up to 32 pad to exactly 32. Above that, the bucket granularity is
// an eighth of the next power of two, which yields O(log n) distinct sizes
// while keeping padding overhead at or below 12.5%.
func CalcPaddedLen(unpaddedLen int) (int, error) {
	if unpaddedLen < MinPlaintextSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrMessageTooShort, unpaddedLen)
	}
	if unpaddedLen > MaxPlaintextSize {
		return 0, fmt.Errorf("%w: %d bytes exceeds %d", ErrMessageTooLong, unpaddedLen, MaxPlaintextSize)
	}

	if unpaddedLen <= minPaddedLen {
		return minPaddedLen, nil
	}

	nextPow2 := 1 << bits.Len(uint(unpaddedLen-1))
	chunk := nextPow2 / 8
	if chunk < minPaddedLen {
		chunk = minPaddedLen
	}

	return chunk * ((unpaddedLen + chunk - 1) / chunk), nil
}

// pad frames a plaintext as length-prefix || message || zero padding.
func pad(plaintext []byte) ([]byte, error) {
	paddedLen, err := CalcPaddedLen(len(plaintext))
	if err != nil {
		return nil, err
	}

	padded := make([]byte, lenPrefixSize+paddedLen)
	binary.BigEndian.PutUint16(padded[:lenPrefixSize], uint16(len(plaintext)))
	copy(padded[lenPrefixSize:], plaintext)

	return padded, nil
}

// unpad recovers the plaintext from a padded container, re-deriving the
// expected container size from the embedded length. A mismatch means the
// container was truncated or its length field tampered with.
func unpad(padded []byte) ([]byte, error) {
	if len(padded) < lenPrefixSize+minPaddedLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPaddedMessageTooShort, len(padded))
	}

	embeddedLen := int(binary.BigEndian.Uint16(padded[:lenPrefixSize]))
	if embeddedLen < MinPlaintextSize || embeddedLen > MaxPlaintextSize {
		return nil, fmt.Errorf("%w: embedded length %d", ErrInvalidLength, embeddedLen)
	}

	expectedLen, err := CalcPaddedLen(embeddedLen)
	if err != nil {
		return nil, err
	}
	if len(padded) != lenPrefixSize+expectedLen {
		return nil, fmt.Errorf("%w: container is %d bytes, want %d",
			ErrInvalidPadding, len(padded), lenPrefixSize+expectedLen)
	}

	return padded[lenPrefixSize : lenPrefixSize+embeddedLen], nil
}
