package utils_test

import (
	"context"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/callora/custody/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func stringTag(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

type amountData struct {
	amount string
}

func (d amountData) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("amount", d.amount)}
}

func TestActionTagger(t *testing.T) {
	owner := custody.NewAddress([]byte("owner"))

	cases := map[string]struct {
		stack custody.Handler
		tx    custody.Tx
		err   *errors.Error
		tags  []common.KVPair
	}{
		"simple call": {
			stack: custodytest.Decorate(&custodytest.Handler{}, utils.NewActionTagger()),
			tx:    &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "vault/deposit"}},
			tags:  []common.KVPair{stringTag(utils.ActionKey, "vault/deposit")},
		},
		"passes through error": {
			stack: custodytest.Decorate(&custodytest.Handler{DeliverErr: errors.ErrHuman}, utils.NewActionTagger()),
			tx:    &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "vault/deposit"}},
			err:   errors.ErrHuman,
		},
		"broken tx is rejected early": {
			stack: custodytest.Decorate(&custodytest.Handler{}, utils.NewActionTagger()),
			tx:    &custodytest.Tx{Err: errors.ErrInvalidMsg},
			err:   errors.ErrInvalidMsg,
		},
		"tags are additive": {
			stack: custodytest.Decorate(&custodytest.Handler{
				DeliverResult: custody.DeliverResult{Tags: []common.KVPair{stringTag(utils.ActionKey, "random")}},
			}, utils.NewActionTagger()),
			tx:   &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "vault/deposit"}},
			tags: []common.KVPair{stringTag(utils.ActionKey, "random"), stringTag(utils.ActionKey, "vault/deposit")},
		},
		"events are tagged": {
			stack: custodytest.Decorate(&custodytest.Handler{
				DeliverResult: custody.DeliverResult{Events: []custody.Event{
					custody.NewEvent("deposit", amountData{amount: "10"}, owner),
				}},
			}, utils.NewActionTagger()),
			tx: &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "vault/deposit"}},
			tags: []common.KVPair{
				stringTag(utils.ActionKey, "vault/deposit"),
				stringTag("event", "deposit"),
				stringTag("deposit.participant", owner.String()),
				stringTag("deposit.amount", "10"),
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := tc.stack.Deliver(context.Background(), store.MemStore(), tc.tx)
			if tc.err != nil {
				require.True(t, tc.err.Is(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tc.tags), len(res.Tags))
			for i := range tc.tags {
				assert.Equal(t, string(tc.tags[i].Key), string(res.Tags[i].Key))
				assert.Equal(t, string(tc.tags[i].Value), string(res.Tags[i].Value))
			}
		})
	}
}
