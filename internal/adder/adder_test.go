package adder

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		size      int
		a, b      []byte
		want      []byte
		wantCarry byte
	}{
		{"no carry", 3, []byte{1, 2, 3}, []byte{4, 5, 6}, []byte{5, 7, 9}, 0},
		{"carry out", 3, []byte{9, 9, 9}, []byte{1}, []byte{0, 0, 0}, 1},
		{"carry into empty tail", 4, []byte{9}, []byte{1}, []byte{0, 1, 0, 0}, 0},
		{"shorter a", 3, []byte{5}, []byte{5, 9, 1}, []byte{0, 0, 2}, 0},
		{"both empty", 2, nil, nil, []byte{0, 0}, 0},
		{"empty chunk", 0, nil, nil, []byte{}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := bytes.Repeat([]byte{7}, tt.size)
			carry := Add(result, tt.a, tt.b)
			if !bytes.Equal(result, tt.want) {
				t.Errorf("result = %v, want %v", result, tt.want)
			}
			if carry != tt.wantCarry {
				t.Errorf("carry = %d, want %d", carry, tt.wantCarry)
			}
		})
	}
}

func TestAdd_PanicsOnOversizeOperand(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Add(make([]byte, 1), []byte{1, 2}, nil)
}

func TestRipple(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		in        []byte
		carry     byte
		want      []byte
		wantCarry byte
	}{
		{"zero carry leaves chunk", []byte{9, 9}, 0, []byte{9, 9}, 0},
		{"absorbed at first digit", []byte{3, 9}, 1, []byte{4, 9}, 0},
		{"ripples through nines", []byte{9, 9, 4}, 1, []byte{0, 0, 5}, 0},
		{"all nines escapes", []byte{9, 9, 9}, 1, []byte{0, 0, 0}, 1},
		{"empty chunk passes carry on", []byte{}, 1, []byte{}, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := append([]byte(nil), tt.in...)
			carry := Ripple(buf, tt.carry)
			if !bytes.Equal(buf, tt.want) {
				t.Errorf("result = %v, want %v", buf, tt.want)
			}
			if carry != tt.wantCarry {
				t.Errorf("carry = %d, want %d", carry, tt.wantCarry)
			}
		})
	}
}

// TestCarryBound checks that the carry leaving a chunk, local carry plus the
// unabsorbed incoming carry, never exceeds one.
func TestCarryBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	digits := gen.SliceOf(gen.UInt8Range(0, 9))

	properties.Property("carry out of a chunk is 0 or 1", prop.ForAll(
		func(a, b []uint8, in bool) bool {
			size := len(a)
			if len(b) > size {
				size = len(b)
			}
			result := make([]byte, size)
			out := Add(result, a, b)
			var incoming byte
			if in {
				incoming = 1
			}
			out += Ripple(result, incoming)
			return out <= 1
		},
		digits, digits, gen.Bool(),
	))

	properties.TestingRun(t)
}
