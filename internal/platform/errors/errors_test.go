package errors

import (
	stderrs "errors"
	"testing"
)

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	// New / Newf
	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeDateParse, "bad date %q", "not a date")
	if got := e2.Error(); got != `bad date "not a date"` {
		t.Fatalf("Newf().Error = %q", got)
	}

	// Wrap / Wrapf / Unwrap
	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDataLoad, "read failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeDataLoad {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	e4 := Wrapf(src, ErrorCodeTransport, "send %s", "failed")
	// Error() includes message + ": " + orig
	if want := "send failed: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	// As
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeTransport {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// WithField (copy-on-write) and WithOp
	e5 := Wrap(src, ErrorCodeValidation, "oops")
	e6 := WithField(e5, "slots")
	e7 := WithOp(e6, "validate")
	if fe, ok := As(e6); !ok || fe.Field() != "slots" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "validate" {
		t.Fatalf("WithOp failed")
	}
	// original unchanged
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}

	// Root
	if r := Root(e4); r == nil || r.Error() != "root" {
		t.Fatalf("Root() = %v", r)
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
}

func TestSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{Configf("no calendar %q", "bouts"), ErrorCodeConfig},
		{DataLoadf("bad csv"), ErrorCodeDataLoad},
		{DateParsef("bad date"), ErrorCodeDateParse},
		{Validationf("bad payload"), ErrorCodeValidation},
		{Transportf("status %d", 502), ErrorCodeTransport},
		{NotFoundf("gone"), ErrorCodeNotFound},
		{Internalf("???"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.want {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.want)
		}
	}
}

func TestIsCodeAndWrapIf(t *testing.T) {
	if !IsCode(Transportf("x"), ErrorCodeTransport) {
		t.Fatalf("IsCode(Transport) = false")
	}
	if IsCode(stderrs.New("foreign"), ErrorCodeTransport) {
		t.Fatalf("IsCode(foreign, Transport) = true")
	}
	if WrapIf(nil, ErrorCodeDataLoad, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if w := WrapIf(stderrs.New("boom"), ErrorCodeDataLoad, "load"); CodeOf(w) != ErrorCodeDataLoad {
		t.Fatalf("WrapIf code = %v", CodeOf(w))
	}
}

func TestFatal(t *testing.T) {
	if Fatal(nil) {
		t.Fatalf("Fatal(nil) = true")
	}
	if Fatal(Validationf("invalid payload")) {
		t.Fatalf("validation errors must not be fatal")
	}
	for _, err := range []error{
		Configf("x"), DataLoadf("x"), DateParsef("x"), Transportf("x"), Internalf("x"),
	} {
		if !Fatal(err) {
			t.Fatalf("Fatal(%v) = false, want true", err)
		}
	}
	// foreign errors default to Unknown which is fatal
	if !Fatal(stderrs.New("foreign")) {
		t.Fatalf("Fatal(foreign) = false")
	}
}
