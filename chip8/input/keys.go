package input

// Keys is the set of currently pressed CHIP-8 keys. Bit k is set when key k
// (0x0-0xF) is held down.
type Keys uint16

// Press marks key k as pressed.
func (k *Keys) Press(key uint8) {
	*k |= 1 << (key & 0xF)
}

// Release marks key k as released.
func (k *Keys) Release(key uint8) {
	*k &^= 1 << (key & 0xF)
}

// IsPressed reports whether key k is pressed. Only the low nibble of key is used.
func (k Keys) IsPressed(key uint8) bool {
	return k&(1<<(key&0xF)) != 0
}

// Empty reports whether no key is pressed.
func (k Keys) Empty() bool {
	return k == 0
}

// Lowest returns the lowest pressed key index, or false if none is pressed.
func (k Keys) Lowest() (uint8, bool) {
	for key := uint8(0); key < 16; key++ {
		if k.IsPressed(key) {
			return key, true
		}
	}
	return 0, false
}

// Pressed returns the pressed key indices in ascending order.
func (k Keys) Pressed() []uint8 {
	var out []uint8
	for key := uint8(0); key < 16; key++ {
		if k.IsPressed(key) {
			out = append(out, key)
		}
	}
	return out
}

// KeysOf builds a key set from a list of key indices.
func KeysOf(keys ...uint8) Keys {
	var k Keys
	for _, key := range keys {
		k.Press(key)
	}
	return k
}
