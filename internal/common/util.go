package common

// WipeByteArray zeroes the buffer in place. Used to scrub password bytes
// once they have been handed to the transport.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
