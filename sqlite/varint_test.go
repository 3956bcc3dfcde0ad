package sqlite

import "testing"

func TestVarintSingleByte(t *testing.T) {
	v, n, err := VarintFromBytes([]byte{0x05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 || n != 1 {
		t.Errorf("got (%d, %d), want (5, 1)", v, n)
	}
}

func TestVarintMultiByte(t *testing.T) {
	// 300 = 0b1_0010_1100 -> two groups of 7 bits: 0000010 0101100
	buf := []byte{0x82, 0x2c}
	v, n, err := VarintFromBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 300 || n != 2 {
		t.Errorf("got (%d, %d), want (300, 2)", v, n)
	}
}

func TestVarintTruncated(t *testing.T) {
	_, _, err := VarintFromBytes([]byte{0x82})
	if err != ErrVarintTruncated {
		t.Errorf("got err %v, want ErrVarintTruncated", err)
	}
}

func TestVarintEmpty(t *testing.T) {
	_, _, err := VarintFromBytes(nil)
	if err != ErrVarintTruncated {
		t.Errorf("got err %v, want ErrVarintTruncated", err)
	}
}

func TestVarintNineByteForm(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	_, n, err := VarintFromBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 9 {
		t.Errorf("got n=%d, want 9", n)
	}
}
