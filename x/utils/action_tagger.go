package utils

import (
	"github.com/callora/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag holding the path of the delivered message, for
// example action='vault/deduct'.
const ActionKey = "action"

// ActionTagger indexes successful transactions by message path and by the
// tags of the events they emitted, so clients can search and subscribe
// to vault deductions or pool distributions. Failed transactions carry no
// tags.
type ActionTagger struct{}

var _ custody.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	res.Tags = append(res.Tags, custody.EventTags(res.Events)...)
	return res, nil
}
