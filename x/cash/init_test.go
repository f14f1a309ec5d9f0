package cash

import (
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitState(t *testing.T) {
	addr := custody.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x30}

	cases := map[string]struct {
		opts    custody.Options
		isError bool
		want    map[string]string
	}{
		"no data": {
			opts: custody.Options{},
		},
		"unrelated data": {
			opts: custody.Options{"foo": []byte(`"bar"`)},
		},
		"bad format": {
			opts:    custody.Options{"cash": []byte(`[{"coins": 123}]`)},
			isError: true,
		},
		"missing address": {
			opts:    custody.Options{"cash": []byte(`[{"coins": ["10 USDC"]}]`)},
			isError: true,
		},
		"real account": {
			opts: custody.Options{"cash": []byte(`[{
				"address": "0102030405060708090021222324252627282930",
				"coins": ["1000 USDC", {"Ticker": "EUR", "Amount": "7"}]
			}]`)},
			want: map[string]string{"USDC": "1000", "EUR": "7"},
		},
		"same token twice adds up": {
			opts: custody.Options{"cash": []byte(`[{
				"address": "0102030405060708090021222324252627282930",
				"coins": ["1000 USDC", "1 USDC"]
			}]`)},
			want: map[string]string{"USDC": "1001"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, kv)
			if tc.isError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			ctrl := NewController(NewBucket())
			for token, amount := range tc.want {
				got, err := ctrl.Balance(kv, token, addr)
				require.NoError(t, err)
				assert.Equal(t, amount, got.String())
			}
		})
	}
}
