package app

import (
	"testing"

	"github.com/callora/custody/coin"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x/sigs"
	"github.com/callora/custody/x/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRoundTrip(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	msg := &vault.DepositMsg{
		Instance: []byte("vault"),
		Caller:   key.PublicKey().Address(),
		Amount:   coin.NewAmount(42),
	}
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(key, tx, "test-chain-1", 3)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	bz, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(bz)
	require.NoError(t, err)
	got, err := decoded.GetMsg()
	require.NoError(t, err)
	require.IsType(t, &vault.DepositMsg{}, got)
	assert.Equal(t, "42", got.(*vault.DepositMsg).Amount.String())
	assert.Equal(t, "vault/deposit", got.Path())

	signed := decoded.(*Tx)
	require.Len(t, signed.GetSignatures(), 1)
	assert.Equal(t, int64(3), signed.GetSignatures()[0].Sequence)
}

func TestTxSignBytesExcludeSignatures(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	tx := &Tx{Msg: &vault.PauseMsg{Instance: []byte("vault"), Caller: key.PublicKey().Address()}}

	before, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain-1", 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	after, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	full, err := tx.Marshal()
	require.NoError(t, err)
	assert.NotEqual(t, before, full)
}

func TestTxDecoderErrors(t *testing.T) {
	_, err := TxDecoder(nil)
	assert.True(t, errors.ErrInvalidMsg.Is(err))

	_, err = TxDecoder([]byte("garbage"))
	assert.True(t, errors.ErrInvalidMsg.Is(err))

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}
