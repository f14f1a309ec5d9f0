package custody_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := custody.Address(b)

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", b))
	})

	Convey("test hexademical condition printing", t, func() {
		cond := custody.NewCondition("vault", "owner", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldEqual, fmt.Sprintf("vault/owner/%X", []byte("ABCD123456LHB")))
	})

	Convey("nil address prints a placeholder", t, func() {
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
	})
}

func TestConditionParse(t *testing.T) {
	Convey("a well formed condition can be parsed", t, func() {
		cond := custody.NewCondition("sigs", "ed25519", []byte{0, 1, 2, '/', 10})
		ext, typ, data, err := cond.Parse()
		So(err, ShouldBeNil)
		So(ext, ShouldEqual, "sigs")
		So(typ, ShouldEqual, "ed25519")
		So(data, ShouldResemble, []byte{0, 1, 2, '/', 10})
		So(cond.Validate(), ShouldBeNil)
	})

	Convey("a malformed condition is rejected", t, func() {
		cond := custody.Condition("no-sections")
		_, _, _, err := cond.Parse()
		So(errors.ErrInvalidArgument.Is(err), ShouldBeTrue)
		So(errors.ErrInvalidArgument.Is(cond.Validate()), ShouldBeTrue)
		So(cond.String(), ShouldStartWith, "Invalid Condition")
	})

	Convey("address derivation is deterministic", t, func() {
		a := custody.NewCondition("sigs", "ed25519", []byte("key")).Address()
		b := custody.NewCondition("sigs", "ed25519", []byte("key")).Address()
		c := custody.NewCondition("sigs", "ed25519", []byte("other")).Address()
		So(a.Equals(b), ShouldBeTrue)
		So(a.Equals(c), ShouldBeFalse)
		So(a.Validate(), ShouldBeNil)
		So(custody.ContainsAddress([]custody.Address{c, b}, a), ShouldBeTrue)
		So(custody.ContainsAddress([]custody.Address{c}, a), ShouldBeFalse)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("conditiondata")).Address()
	bech, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     `"` + addr.String() + `"`,
			wantAddr: addr,
		},
		"hex decoding": {
			json:     `"hex:` + strings.ToLower(addr.String()) + `"`,
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     `"bech32:` + bech + `"`,
			wantAddr: addr,
		},
		"invalid bech32": {
			json:    `"bech32:cust1invalid"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"short hex address": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrInvalidType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("data")).Address()
	bech, err := addr.Bech32()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bech, custody.AddressPrefix+"1"))

	got, err := custody.ParseAddress("bech32:" + bech)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := custody.Address([]byte{0xde, 0xad, 0xbe, 0xef})
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"DEADBEEF"`, string(raw))
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition custody.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: custody.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInvalidArgument,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got custody.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   custody.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   custody.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}
