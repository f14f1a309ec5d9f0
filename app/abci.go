package app

import (
	"fmt"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

//---------- helpers for handling responses --------

// DeliverOrError returns an abci response for DeliverTx,
// converting the error message if present, or using the successful
// DeliverResult
func DeliverOrError(result *custody.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return abci.ResponseDeliverTx{
		Data: result.Data,
		Log:  result.Log,
		Tags: result.Tags,
	}
}

// ParseDeliverOrError is the inverse of DeliverOrError. It rebuilds the
// result of a successful transaction, or the error of a failed one.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*custody.DeliverResult, error) {
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &custody.DeliverResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}, nil
}

// CheckOrError returns an abci response for CheckTx,
// converting the error message if present, or using the successful
// CheckResult
func CheckOrError(result *custody.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return abci.ResponseCheckTx{
		Data: result.Data,
		Log:  result.Log,
	}
}

// DeliverTxError converts any error into a abci.ResponseDeliverTx, preserving
// as much info as possible.
// When in debug mode always the full error information is returned.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := abciInfo(err, debug)
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  fmt.Sprintf("cannot deliver tx: %s", log),
	}
}

// CheckTxError converts any error into a abci.ResponseCheckTx, preserving as
// much info as possible.
// When in debug mode always the full error information is returned.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := abciInfo(err, debug)
	return abci.ResponseCheckTx{
		Code: code,
		Log:  fmt.Sprintf("cannot check tx: %s", log),
	}
}

func queryError(err error) abci.ResponseQuery {
	code, log := abciInfo(err, false)
	return abci.ResponseQuery{
		Code: code,
		Log:  log,
	}
}

// abciInfo returns the code and the log message of given error. Panic
// details are only revealed in debug mode.
func abciInfo(err error, debug bool) (uint32, string) {
	if debug {
		return errors.Code(err), fmt.Sprintf("%+v", err)
	}
	err = errors.Redact(err)
	return errors.Code(err), err.Error()
}
