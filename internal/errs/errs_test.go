package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestWrap_Nil(t *testing.T) {
	if err := Wrap(KindIO, "copy", "/a", nil); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	err := Wrap(KindIO, "copy", "/a.jpg", fs.ErrPermission)
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("errors.Is(ErrPermission) = false for %v", err)
	}
	if !IsKind(err, KindIO) {
		t.Errorf("IsKind(KindIO) = false for %v", err)
	}
	if IsKind(err, KindDecode) {
		t.Errorf("IsKind(KindDecode) = true for %v", err)
	}
}

func TestWrap_PreservesInnerKind(t *testing.T) {
	inner := New(KindDecode, "probe", "/x.png", "bad header")
	outer := fmt.Errorf("processing: %w", inner)
	err := Wrap(KindRun, "run", "", outer)
	if !IsKind(err, KindDecode) {
		t.Errorf("IsKind(KindDecode) = false for %v", err)
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"with path", New(KindValidation, "start", "/src", "does not exist"), `validation: start "/src": does not exist`},
		{"no path", New(KindRun, "discover", "", "boom"), "run: discover: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind_PlainError(t *testing.T) {
	if IsKind(errors.New("x"), KindIO) {
		t.Error("IsKind on plain error = true")
	}
}
