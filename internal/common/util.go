package common

// WipeByteArray overwrites b with zeros. Passwords and passcodes read from
// the terminal are wiped this way once they are no longer needed.
//
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
