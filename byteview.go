package pluggable_cache

// ByteView is an immutable view of cached bytes.
type ByteView struct {
	b []byte
}

// NewByteView copies b.
func NewByteView(b []byte) ByteView {
	return ByteView{b: cloneBytes(b)}
}

func (v ByteView) Len() int {
	return len(v.b)
}

// ByteSlice returns a copy of the data.
func (v ByteView) ByteSlice() []byte {
	return cloneBytes(v.b)
}

func (v ByteView) String() string {
	return string(v.b)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
