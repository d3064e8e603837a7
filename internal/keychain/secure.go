package keychain

// ZeroBytes overwrites the slice with zeros. Callers use it on seed
// material as soon as it is no longer needed.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// LockBytes attempts to pin the slice in physical memory so seed material
// never hits swap. Best effort; returns false when the platform refuses.
func LockBytes(b []byte) bool {
	return mlock(b)
}

// UnlockBytes releases a previous LockBytes pin.
func UnlockBytes(b []byte) {
	munlock(b)
}
